package types

// Response is what every service method hands back to its handler. The
// handler passes it to the "send" function installed by middleware.ResponseInit.
type Response struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   error  `json:"-"`
}

// ResponseAPI is the JSON envelope written to the client.
type ResponseAPI struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
