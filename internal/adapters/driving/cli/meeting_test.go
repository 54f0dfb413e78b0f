package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registo-labs/registo/internal/core/domain"
)

func TestMeetingCreateCmd(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { meetingCreateType, meetingCreateDate, meetingCreateLocation = "", "", "" }()

	out, err := execute(t, "meeting", "create",
		"--type", "CA", "--date", "2025-09-15", "--location", "Sede")
	require.NoError(t, err)
	assert.Contains(t, out, "Created CA-001/2025")
	assert.Contains(t, out, "Conselho de Agrupamento")
}

func TestMeetingCreateCmd_UnknownType(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { meetingCreateType, meetingCreateDate = "", "" }()

	_, err := execute(t, "meeting", "create", "--type", "XX", "--date", "2025-09-15")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownRecordType)
}

func TestMeetingCreateCmd_MalformedDate(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { meetingCreateType, meetingCreateDate = "", "" }()

	_, err := execute(t, "meeting", "create", "--type", "CA", "--date", "15-09-2025")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestMeetingListCmd(t *testing.T) {
	fixtures, cleanup := setupTestServices(t)
	defer cleanup()

	seedMeeting(t, fixtures, time.Date(2025, 9, 15, 18, 0, 0, 0, time.UTC), "Sede")

	out, err := execute(t, "meeting", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Meetings (1 total)")
	assert.Contains(t, out, "CA-001/2025")
	assert.Contains(t, out, "Sede")
}

func TestMeetingShowCmd(t *testing.T) {
	fixtures, cleanup := setupTestServices(t)
	defer cleanup()

	meeting := seedMeeting(t, fixtures, time.Date(2025, 9, 15, 18, 0, 0, 0, time.UTC), "Auditório")

	out, err := execute(t, "meeting", "show", meeting.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "CA-001/2025")
	assert.Contains(t, out, "Auditório")
}

func TestMeetingTypesCmd(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "meeting", "types")
	require.NoError(t, err)
	assert.Contains(t, out, "CA")
	assert.Contains(t, out, "Conselho de Agrupamento")
}

func seedMeeting(t *testing.T, fixtures *testFixtures, date time.Time, location string) *domain.Meeting {
	t.Helper()
	mt, err := fixtures.meetingTypes.GetByCode(context.Background(), "CA")
	require.NoError(t, err)

	meeting, err := recordService.CreateMeeting(context.Background(), domain.MeetingDraft{
		MeetingTypeID: mt.ID,
		Date:          date,
		Location:      location,
	})
	require.NoError(t, err)
	return meeting
}
