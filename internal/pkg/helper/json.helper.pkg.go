package helper

import (
	"encoding/json"
)

func JSONToByte(payload any) ([]byte, error) {
	return json.Marshal(payload)
}

func StringToStruct[I any](payload string) (result *I, err error) {
	err = json.Unmarshal([]byte(payload), &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}
