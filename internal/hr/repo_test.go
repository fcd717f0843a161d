package hr

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendhub/internal/model"
)

func TestRepositoryDeleteEventsByPrefixLiteralMatch(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	// The generated prefix contains underscores, so the query must do a
	// literal prefix match rather than a LIKE pattern.
	mock.ExpectExec(`(?s)DELETE FROM calendar_events WHERE starts_with\(id, \$1\)`).
		WithArgs("leave_leave_7f3a_").
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewRepository(db)
	require.NoError(t, repo.DeleteEventsByPrefix(context.Background(), "leave_leave_7f3a_"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListEventsFilters(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "employee_id", "date", "type", "title", "description", "status"}
	mock.ExpectQuery(`SELECT .+ FROM calendar_events WHERE employee_id = \$1 AND date LIKE \$2 \|\| '%' ORDER BY date`).
		WithArgs("emp1", "2025-06").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("leave_leave_7f3a_2025-06-25", "emp1", "2025-06-25", "leave", "Annual Leave", "", "approved"))

	repo := NewRepository(db)
	events, err := repo.ListEvents(context.Background(), "emp1", "2025-06")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "leave_leave_7f3a_2025-06-25", events[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryReplaceEventRunsInTx(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)DELETE FROM calendar_events WHERE employee_id = \$1 AND date = \$2`).
		WithArgs("emp1", "2025-06-25").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)INSERT INTO calendar_events`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewRepository(db)
	ev := model.CalendarEvent{
		ID:         "leave_leave_7f3a_2025-06-25",
		EmployeeID: "emp1",
		Date:       "2025-06-25",
		Type:       "leave",
		Title:      "Annual Leave",
		Status:     "approved",
	}
	require.NoError(t, repo.ReplaceEvent(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}
