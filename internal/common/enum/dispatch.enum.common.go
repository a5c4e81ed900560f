package enum

/*----------- DispatchStatusEnum -----------*/

type DispatchStatusEnum string

const (
	DELIVERED     DispatchStatusEnum = "delivered"
	DISABLED      DispatchStatusEnum = "disabled"
	PARTIAL       DispatchStatusEnum = "partial"
	FAILED        DispatchStatusEnum = "failed"
	MISCONFIGURED DispatchStatusEnum = "misconfigured"
)

func (e DispatchStatusEnum) ToString() string {
	switch e {
	case DELIVERED:
		return "delivered"
	case DISABLED:
		return "disabled"
	case PARTIAL:
		return "partial"
	case FAILED:
		return "failed"
	case MISCONFIGURED:
		return "misconfigured"
	}
	return ""
}

func (e DispatchStatusEnum) IsValid() bool {
	switch e {
	case DELIVERED, DISABLED, PARTIAL, FAILED, MISCONFIGURED:
		return true
	}
	return false
}

// IsSuccess is true for the statuses the user sees as "submitted".
func (e DispatchStatusEnum) IsSuccess() bool {
	return e == DELIVERED || e == DISABLED
}

/*----------- FailureKindEnum -----------*/

type FailureKindEnum string

const (
	TIMEOUT   FailureKindEnum = "timeout"
	REJECTED  FailureKindEnum = "rejected"
	TRANSPORT FailureKindEnum = "transport"
)

func (e FailureKindEnum) ToString() string {
	switch e {
	case TIMEOUT:
		return "timeout"
	case REJECTED:
		return "rejected"
	case TRANSPORT:
		return "transport"
	}
	return ""
}

func (e FailureKindEnum) IsValid() bool {
	switch e {
	case TIMEOUT, REJECTED, TRANSPORT:
		return true
	}
	return false
}
