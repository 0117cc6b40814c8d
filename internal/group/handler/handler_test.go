package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"guesense/internal/group/handler/mocks"
	"guesense/internal/group/models"
	merchantmodels "guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
)

type GroupHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestGroupHandlerSuite(t *testing.T) {
	suite.Run(t, new(GroupHandlerSuite))
}

func (s *GroupHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.service = mocks.NewMockService(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
}

func (s *GroupHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *GroupHandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *GroupHandlerSuite) TestCreate() {
	s.Run("clean create returns 201 with the envelope", func() {
		s.service.EXPECT().CreateWithMembers(gomock.Any(), "North Region", gomock.Any(), gomock.Any()).
			Return(&models.CreateGroupResult{
				GroupID:             7,
				GroupName:           "North Region",
				MembersSuccessCount: 2,
				MembersTotalCount:   2,
				MembersFailed:       []merchantmodels.BulkFailure{},
			}, nil)

		w := s.do(http.MethodPost, "/groups", CreateGroupRequest{
			Name: "North Region",
			Merchants: []MemberPayload{
				{MerchantID: 1, Code: "APT-001"},
				{MerchantID: 2, Code: "APT-002"},
			},
		})

		s.Equal(http.StatusCreated, w.Code)
		resp := s.decode(w)
		s.Equal(true, resp["success"])
		data := resp["data"].(map[string]any)
		s.Equal(float64(7), data["groupId"])
	})

	s.Run("partial failure returns 207", func() {
		s.service.EXPECT().CreateWithMembers(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.CreateGroupResult{
				GroupID:             8,
				MembersSuccessCount: 1,
				MembersTotalCount:   2,
				MembersFailed: []merchantmodels.BulkFailure{
					{Code: "APT-002", Error: "merchant is already registered"},
				},
			}, nil)

		w := s.do(http.MethodPost, "/groups", CreateGroupRequest{
			Name: "South Region",
			Merchants: []MemberPayload{
				{MerchantID: 1, Code: "APT-001"},
				{MerchantID: 2, Code: "APT-002"},
			},
		})

		s.Equal(http.StatusMultiStatus, w.Code)
	})

	s.Run("validation error returns 400 with code and message", func() {
		s.service.EXPECT().CreateWithMembers(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "group name must be at least 3 characters"))

		w := s.do(http.MethodPost, "/groups", CreateGroupRequest{Name: "ab"})

		s.Equal(http.StatusBadRequest, w.Code)
		resp := s.decode(w)
		s.Equal(false, resp["success"])
		errBody := resp["error"].(map[string]any)
		s.Equal("validation_error", errBody["code"])
		s.NotEmpty(errBody["message"])
	})

	s.Run("malformed body returns 400", func() {
		req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *GroupHandlerSuite) TestGet() {
	s.Run("returns the group detail", func() {
		s.service.EXPECT().GetWithMembers(gomock.Any(), id.GroupID(5)).
			Return(&models.GroupWithMembers{
				Group:        models.Group{ID: 5, Name: "Detail Group", Status: models.GroupStatusActive},
				MembersCount: 1,
				Members: []models.GroupMember{
					{RegistryID: 10, MerchantID: 1, MerchantCode: "APT-001", MerchantName: "Alpha Pharma", IsSource: true},
				},
			}, nil)

		w := s.do(http.MethodGet, "/groups/5", nil)

		s.Equal(http.StatusOK, w.Code)
		data := s.decode(w)["data"].(map[string]any)
		s.Equal("Detail Group", data["name"])
		s.Equal(float64(1), data["membersCount"])
	})

	s.Run("unknown group returns 404", func() {
		s.service.EXPECT().GetWithMembers(gomock.Any(), id.GroupID(404)).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "group not found"))

		w := s.do(http.MethodGet, "/groups/404", nil)

		s.Equal(http.StatusNotFound, w.Code)
		errBody := s.decode(w)["error"].(map[string]any)
		s.Equal("not_found", errBody["code"])
	})

	s.Run("non-numeric id returns 400 without touching the service", func() {
		w := s.do(http.MethodGet, "/groups/abc", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *GroupHandlerSuite) TestSetSource() {
	s.Run("assigns the source", func() {
		s.service.EXPECT().SetTemplateSource(gomock.Any(), id.GroupID(5), id.MerchantID(2)).Return(nil)

		w := s.do(http.MethodPut, "/groups/5/source/2", nil)

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("non-member returns 404 with not_a_member", func() {
		s.service.EXPECT().SetTemplateSource(gomock.Any(), id.GroupID(5), id.MerchantID(9)).
			Return(dErrors.New(dErrors.CodeNotAMember, "merchant is not an active member of this group"))

		w := s.do(http.MethodPut, "/groups/5/source/9", nil)

		s.Equal(http.StatusNotFound, w.Code)
		errBody := s.decode(w)["error"].(map[string]any)
		s.Equal("not_a_member", errBody["code"])
	})
}

func (s *GroupHandlerSuite) TestAddMembers() {
	s.service.EXPECT().AddMembers(gomock.Any(), id.GroupID(5), gomock.Any()).
		Return(&merchantmodels.BulkResult{
			SuccessCount: 1,
			TotalCount:   2,
			Failed: []merchantmodels.BulkFailure{
				{Code: "APT-002", Error: "merchant is already a member of this group"},
			},
		}, nil)

	w := s.do(http.MethodPost, "/groups/5/members", AddMembersRequest{
		Merchants: []MemberPayload{
			{MerchantID: 1, Code: "APT-001"},
			{MerchantID: 2, Code: "APT-002"},
		},
	})

	s.Equal(http.StatusMultiStatus, w.Code)
	data := s.decode(w)["data"].(map[string]any)
	s.Equal(float64(1), data["successCount"])
}

func (s *GroupHandlerSuite) TestRemoveMember() {
	s.service.EXPECT().RemoveMember(gomock.Any(), id.GroupID(5), id.MerchantID(2)).Return(nil)

	w := s.do(http.MethodDelete, "/groups/5/members/2", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["success"])
}

func (s *GroupHandlerSuite) TestDelete() {
	s.Run("internal failures hide details from the body", func() {
		s.service.EXPECT().Delete(gomock.Any(), id.GroupID(5)).
			Return(dErrors.Wrap(errors.New("connection reset"), dErrors.CodeInternal, "failed to delete group"))

		w := s.do(http.MethodDelete, "/groups/5", nil)

		s.Equal(http.StatusInternalServerError, w.Code)
		errBody := s.decode(w)["error"].(map[string]any)
		s.Equal("internal_error", errBody["code"])
		_, hasMessage := errBody["message"]
		s.False(hasMessage)
	})
}
