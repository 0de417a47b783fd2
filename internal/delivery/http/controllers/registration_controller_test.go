package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventify/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	detail     *domain.RegistrationDetail
	detailErr  error
	cancelErr  error
	listMine   []*domain.RegistrationWithEvent
	listEvent  []*domain.RegistrationDetail
	listErr    error
	lastEvent  string
	lastUser   string
	lastStatus domain.RegistrationStatus
	lastNotes  *string
}

func (f *fakeRegistrationService) Register(ctx context.Context, eventID, userID string, notes *string) (*domain.RegistrationDetail, error) {
	f.lastEvent = eventID
	f.lastUser = userID
	f.lastNotes = notes
	return f.detail, f.detailErr
}

func (f *fakeRegistrationService) CancelRegistration(ctx context.Context, registrationID, requesterID string) error {
	f.lastUser = requesterID
	return f.cancelErr
}

func (f *fakeRegistrationService) UpdateStatus(ctx context.Context, registrationID string, newStatus domain.RegistrationStatus, requesterID string, requesterRole domain.Role) (*domain.RegistrationDetail, error) {
	f.lastStatus = newStatus
	return f.detail, f.detailErr
}

func (f *fakeRegistrationService) GetByID(ctx context.Context, registrationID, requesterID string, requesterRole domain.Role) (*domain.RegistrationDetail, error) {
	return f.detail, f.detailErr
}

func (f *fakeRegistrationService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	f.lastUser = userID
	return f.listMine, f.listErr
}

func (f *fakeRegistrationService) ListEventRegistrations(ctx context.Context, eventID, requesterID string, requesterRole domain.Role) ([]*domain.RegistrationDetail, error) {
	f.lastEvent = eventID
	return f.listEvent, f.listErr
}

func TestRegistrationController_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success without body",
			body:       "",
			wantStatus: http.StatusCreated,
		},
		{
			name:       "success with notes",
			body:       `{"notes":"vegetarian"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "event full",
			body:           "",
			fakeErr:        domain.ErrEventFull,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "conflict",
		},
		{
			name:           "already registered",
			body:           "",
			fakeErr:        domain.ErrAlreadyRegistered,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "conflict",
		},
		{
			name:           "event not published",
			body:           "",
			fakeErr:        domain.ErrEventNotPublished,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "conflict",
		},
		{
			name:           "event missing",
			body:           "",
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRegistrationService{detailErr: tt.fakeErr}
			if tt.fakeErr == nil {
				fake.detail = &domain.RegistrationDetail{
					Registration: &domain.Registration{ID: "reg-1", Status: domain.RegistrationStatusConfirmed},
				}
			}
			ctrl := NewRegistrationController(testLogger(), fake)
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(http.MethodPost, "/api/events/ev-1/registrations", bytes.NewBufferString(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(http.MethodPost, "/api/events/ev-1/registrations", nil)
			}
			req.SetPathValue("eventID", "ev-1")
			req = authed(req, "user-1", domain.RoleUser)
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr, "response body")
			}
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "ev-1", fake.lastEvent)
				assert.Equal(t, "user-1", fake.lastUser)
			}
			if tt.name == "success with notes" {
				require.NotNil(t, fake.lastNotes)
				assert.Equal(t, "vegetarian", *fake.lastNotes)
			}
		})
	}
}

func TestRegistrationController_Cancel(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusNoContent},
		{name: "not owner", fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "already cancelled", fakeErr: domain.ErrAlreadyCancelled, wantStatus: http.StatusConflict},
		{name: "event ended", fakeErr: domain.ErrEventEnded, wantStatus: http.StatusConflict},
		{name: "missing", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewRegistrationController(testLogger(), &fakeRegistrationService{cancelErr: tt.fakeErr})
			req := httptest.NewRequest(http.MethodDelete, "/api/registrations/reg-1", nil)
			req.SetPathValue("registrationID", "reg-1")
			req = authed(req, "user-1", domain.RoleUser)
			rr := httptest.NewRecorder()

			ctrl.Cancel(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
		})
	}
}

func TestRegistrationController_UpdateStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeRegistrationService{detail: &domain.RegistrationDetail{
			Registration: &domain.Registration{ID: "reg-1", Status: domain.RegistrationStatusAttended},
		}}
		ctrl := NewRegistrationController(testLogger(), fake)
		req := httptest.NewRequest(http.MethodPatch, "/api/registrations/reg-1/status", bytes.NewBufferString(`{"status":"Attended"}`))
		req.SetPathValue("registrationID", "reg-1")
		req = authed(req, "org-1", domain.RoleOrganizer)
		rr := httptest.NewRecorder()

		ctrl.UpdateStatus(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.RegistrationStatusAttended, fake.lastStatus)
	})

	t.Run("empty status", func(t *testing.T) {
		ctrl := NewRegistrationController(testLogger(), &fakeRegistrationService{})
		req := httptest.NewRequest(http.MethodPatch, "/api/registrations/reg-1/status", bytes.NewBufferString(`{}`))
		req.SetPathValue("registrationID", "reg-1")
		req = authed(req, "org-1", domain.RoleOrganizer)
		rr := httptest.NewRecorder()

		ctrl.UpdateStatus(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "status is required")
	})

	t.Run("unknown status rejected by the service", func(t *testing.T) {
		ctrl := NewRegistrationController(testLogger(), &fakeRegistrationService{detailErr: domain.ErrInvalidInput})
		req := httptest.NewRequest(http.MethodPatch, "/api/registrations/reg-1/status", bytes.NewBufferString(`{"status":"Bogus"}`))
		req.SetPathValue("registrationID", "reg-1")
		req = authed(req, "org-1", domain.RoleOrganizer)
		rr := httptest.NewRecorder()

		ctrl.UpdateStatus(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("reclaim blocked when full", func(t *testing.T) {
		ctrl := NewRegistrationController(testLogger(), &fakeRegistrationService{detailErr: domain.ErrEventFull})
		req := httptest.NewRequest(http.MethodPatch, "/api/registrations/reg-1/status", bytes.NewBufferString(`{"status":"Confirmed"}`))
		req.SetPathValue("registrationID", "reg-1")
		req = authed(req, "org-1", domain.RoleOrganizer)
		rr := httptest.NewRecorder()

		ctrl.UpdateStatus(rr, req)

		require.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestRegistrationController_ListMy(t *testing.T) {
	fake := &fakeRegistrationService{listMine: []*domain.RegistrationWithEvent{
		{
			Registration: &domain.Registration{ID: "reg-1", Status: domain.RegistrationStatusConfirmed},
			Event:        &domain.Event{ID: "ev-1", Title: "GopherCon"},
		},
		{
			Registration: &domain.Registration{ID: "reg-2", Status: domain.RegistrationStatusCancelled},
			Event:        &domain.Event{ID: "ev-2", Title: "GoLab"},
		},
	}}
	ctrl := NewRegistrationController(testLogger(), fake)
	req := httptest.NewRequest(http.MethodGet, "/api/registrations/my", nil)
	req = authed(req, "user-1", domain.RoleUser)
	rr := httptest.NewRecorder()

	ctrl.ListMy(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", fake.lastUser)
	var out struct {
		Data []*domain.RegistrationWithEvent `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, "GopherCon", out.Data[0].Event.Title)
}

func TestRegistrationController_ListForEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeRegistrationService{listEvent: []*domain.RegistrationDetail{
			{
				Registration: &domain.Registration{ID: "reg-1"},
				User:         &domain.UserSummary{ID: "user-1", Email: "ada@example.com"},
			},
		}}
		ctrl := NewRegistrationController(testLogger(), fake)
		req := httptest.NewRequest(http.MethodGet, "/api/events/ev-1/registrations", nil)
		req.SetPathValue("eventID", "ev-1")
		req = authed(req, "org-1", domain.RoleOrganizer)
		rr := httptest.NewRecorder()

		ctrl.ListForEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ev-1", fake.lastEvent)
		assert.Contains(t, rr.Body.String(), "ada@example.com")
	})

	t.Run("not the organizer", func(t *testing.T) {
		ctrl := NewRegistrationController(testLogger(), &fakeRegistrationService{listErr: domain.ErrForbidden})
		req := httptest.NewRequest(http.MethodGet, "/api/events/ev-1/registrations", nil)
		req.SetPathValue("eventID", "ev-1")
		req = authed(req, "org-2", domain.RoleOrganizer)
		rr := httptest.NewRecorder()

		ctrl.ListForEvent(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}
