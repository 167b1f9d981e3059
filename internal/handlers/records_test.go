package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avereen/studylog/internal/handlers/testutil"
	"github.com/avereen/studylog/internal/models"
)

type recordPayload struct {
	ID         string  `json:"id"`
	Subject    string  `json:"subject"`
	Hours      float64 `json:"hours"`
	RecordedAt string  `json:"recorded_at"`
	AccountID  string  `json:"account_id"`
}

type recordListPayload struct {
	Records    []recordPayload `json:"records"`
	TotalHours float64         `json:"total_hours"`
}

func TestCreateAndListRecords(t *testing.T) {
	env := testutil.NewEnv(t)
	result := env.Login(testutil.UniqueEmail())
	token := result.Tokens.AccessToken

	w := env.Request(http.MethodPost, "/api/records",
		map[string]any{"subject": "Math", "hours": 2.5}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var created recordPayload
	testutil.DecodeInto(t, resp.Data, &created)
	require.Equal(t, "Math", created.Subject)
	require.Equal(t, 2.5, created.Hours)
	require.Equal(t, result.Account.ID, created.AccountID)
	require.NotEmpty(t, created.RecordedAt)

	w = env.Request(http.MethodPost, "/api/records",
		map[string]any{"subject": "History", "hours": 1}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.Request(http.MethodGet, "/api/records", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp = testutil.DecodeResponse(t, w)
	var list recordListPayload
	testutil.DecodeInto(t, resp.Data, &list)
	require.Len(t, list.Records, 2)
	require.InDelta(t, 3.5, list.TotalHours, 1e-9)
}

func TestCreateRecordAcceptsZeroValues(t *testing.T) {
	env := testutil.NewEnv(t)
	result := env.Login(testutil.UniqueEmail())
	token := result.Tokens.AccessToken

	// Subject and hours carry no validation: an empty payload binds to zero
	// values and is stored verbatim.
	w := env.Request(http.MethodPost, "/api/records", map[string]any{}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var created recordPayload
	testutil.DecodeInto(t, resp.Data, &created)
	require.Empty(t, created.Subject)
	require.Zero(t, created.Hours)
	require.NotEmpty(t, created.RecordedAt)
}

func TestListIsScopedToCaller(t *testing.T) {
	env := testutil.NewEnv(t)
	alice := env.Login(testutil.UniqueEmail())
	bob := env.Login(testutil.UniqueEmail())

	w := env.Request(http.MethodPost, "/api/records",
		map[string]any{"subject": "Secret", "hours": 3}, alice.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.Request(http.MethodGet, "/api/records", nil, bob.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	resp := testutil.DecodeResponse(t, w)
	var list recordListPayload
	testutil.DecodeInto(t, resp.Data, &list)
	require.Empty(t, list.Records)
	require.Zero(t, list.TotalHours)
}

func TestDeleteRecord(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Login(testutil.UniqueEmail())
	stranger := env.Login(testutil.UniqueEmail())

	w := env.Request(http.MethodPost, "/api/records",
		map[string]any{"subject": "Math", "hours": 2}, owner.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := testutil.DecodeResponse(t, w)
	var created recordPayload
	testutil.DecodeInto(t, resp.Data, &created)

	// A foreign owner cannot delete it and learns nothing beyond 404.
	w = env.Request(http.MethodDelete, "/api/records/"+created.ID, nil, stranger.Tokens.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	var count int64
	require.NoError(t, env.DB.Model(&models.StudyRecord{}).Where("id = ?", created.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	w = env.Request(http.MethodDelete, "/api/records/"+created.ID, nil, owner.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, env.DB.Model(&models.StudyRecord{}).Where("id = ?", created.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)

	w = env.Request(http.MethodDelete, "/api/records/"+created.ID, nil, owner.Tokens.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecordRejectsBadJSON(t *testing.T) {
	env := testutil.NewEnv(t)
	result := env.Login(testutil.UniqueEmail())

	w := env.Request(http.MethodPost, "/api/records",
		map[string]any{"subject": "Math", "hours": "plenty"}, result.Tokens.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestStatsSummaryEndpoint(t *testing.T) {
	env := testutil.NewEnv(t)
	result := env.Login(testutil.UniqueEmail())
	token := result.Tokens.AccessToken

	w := env.Request(http.MethodPost, "/api/records",
		map[string]any{"subject": "Math", "hours": 2}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.Request(http.MethodGet, "/api/stats", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var summary struct {
		DailyLabels  []string  `json:"daily_labels"`
		DailyHours   []float64 `json:"daily_hours"`
		WeeklyLabels []string  `json:"weekly_labels"`
		WeeklyHours  []float64 `json:"weekly_hours"`
		Subjects     []struct {
			Subject string  `json:"subject"`
			Hours   float64 `json:"hours"`
		} `json:"subjects"`
	}
	testutil.DecodeInto(t, resp.Data, &summary)

	require.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, summary.DailyLabels)
	require.Len(t, summary.WeeklyLabels, 4)
	require.Len(t, summary.WeeklyHours, 4)

	var dailyTotal float64
	for _, hours := range summary.DailyHours {
		dailyTotal += hours
	}
	require.InDelta(t, 2, dailyTotal, 1e-9)

	require.Len(t, summary.Subjects, 1)
	require.Equal(t, "Math", summary.Subjects[0].Subject)
	require.InDelta(t, 2, summary.Subjects[0].Hours, 1e-9)
}
