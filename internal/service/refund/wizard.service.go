package refund

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/attachment"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/wizard"
)

var errSessionNotFound = errors.New("session not found")

func (s *Service) CreateSession() *types.Response {
	sess, exp := s.sessions.create()
	s.metrics.SessionsActive(s.sessions.len())

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Session created successfully",
		Data:    view(sess, exp),
	})
}

func (s *Service) GetSession(id string) *types.Response {
	sess, exp, res := s.lookup(id)
	if res != nil {
		return res
	}
	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: view(sess, exp),
	})
}

func (s *Service) DeleteSession(id string) *types.Response {
	if !s.sessions.delete(id) {
		return notFound()
	}
	s.metrics.SessionsActive(s.sessions.len())

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Session discarded",
	})
}

// UpdateFields applies every value or none: names and value types are
// checked before the draft is touched.
func (s *Service) UpdateFields(id string, fields UpdateFieldsRequest) *types.Response {
	sess, exp, res := s.lookup(id)
	if res != nil {
		return res
	}

	values := make(map[wizard.Field]string, len(fields))
	var invalid []string
	for name, raw := range fields {
		field := wizard.Field(name)
		switch v := raw.(type) {
		case string:
			values[field] = v
		case bool:
			if field != wizard.FieldAgreed {
				invalid = append(invalid, name)
				continue
			}
			values[field] = strconv.FormatBool(v)
		default:
			invalid = append(invalid, name)
			continue
		}
		if !field.Settable() {
			invalid = append(invalid, name)
		}
	}

	if len(invalid) > 0 {
		sort.Strings(invalid)
		err := fmt.Errorf("%w: %s", wizard.ErrUnknownField, strings.Join(invalid, ", "))
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: "Invalid fields",
			Error:   err,
		})
	}

	for field, v := range values {
		if err := sess.machine.SetField(field, v); err != nil {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusUnprocessableEntity,
				Message: "Invalid fields",
				Error:   err,
			})
		}
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Draft updated",
		Data:    view(sess, exp),
	})
}

func (s *Service) SetAttachment(id string, header *multipart.FileHeader) *types.Response {
	sess, exp, res := s.lookup(id)
	if res != nil {
		return res
	}

	enc, err := attachment.FromMultipart(header)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    attachment.HTTPStatus(err),
			Message: "Invalid attachment",
			Error:   err,
		})
	}
	sess.machine.SetAttachment(enc.File)

	out := view(sess, exp)
	out.Preview = enc.Preview
	out.OverSoftLimit = enc.OverSoftLimit

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Attachment stored",
		Data:    out,
	})
}

func (s *Service) ClearAttachment(id string) *types.Response {
	sess, exp, res := s.lookup(id)
	if res != nil {
		return res
	}
	sess.machine.SetAttachment(nil)

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Attachment cleared",
		Data:    view(sess, exp),
	})
}

// Next answers 200 even when the gate kept the step; Moved tells the caller.
func (s *Service) Next(id string) *types.Response {
	return s.navigate(id, (*wizard.Machine).Advance)
}

func (s *Service) Prev(id string) *types.Response {
	return s.navigate(id, (*wizard.Machine).Retreat)
}

func (s *Service) navigate(id string, move func(*wizard.Machine) bool) *types.Response {
	sess, exp, res := s.lookup(id)
	if res != nil {
		return res
	}

	moved := move(sess.machine)
	out := view(sess, exp)
	out.Moved = &moved

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: out,
	})
}

func (s *Service) SweepSessions() int {
	removed := s.sessions.sweep()
	s.metrics.SessionsActive(s.sessions.len())
	return removed
}

func (s *Service) lookup(id string) (*session, time.Time, *types.Response) {
	sess, exp, ok := s.sessions.get(id)
	if !ok {
		return nil, time.Time{}, notFound()
	}
	return sess, exp, nil
}

func view(sess *session, expiresAt time.Time) SessionResponse {
	return SessionResponse{
		ID:        sess.id,
		ExpiresAt: expiresAt,
		State:     sess.machine.Snapshot(),
	}
}

func notFound() *types.Response {
	return helper.ParseResponse(&types.Response{
		Code:    http.StatusNotFound,
		Message: errSessionNotFound.Error(),
		Error:   errSessionNotFound,
	})
}
