package refund

import (
	"net/http"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/helper"
)

// banks feeds the institution selector on the payout step.
var banks = []string{
	"BCA",
	"BNI",
	"BRI",
	"Mandiri",
	"BSI",
	"CIMB Niaga",
	"Danamon",
	"Permata",
	"BTPN",
	"DANA",
	"OVO",
	"GoPay",
	"ShopeePay",
}

func (s *Service) Banks() *types.Response {
	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: BanksResponse{Banks: append([]string(nil), banks...)},
	})
}
