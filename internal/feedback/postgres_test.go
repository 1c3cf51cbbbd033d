package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return store, mock
}

func feedbackColumns() []string {
	return []string{
		"id", "material_id", "bone_site_id", "weight_kg",
		"suggested_score", "suggested_rank", "clinician_rank", "clinician_agreed",
		"preferred_material_id", "notes", "created_at", "updated_at",
	}
}

func TestPostgresStore_Save_Upsert(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO feedback`).
		WithArgs(
			"ti6al4v_eli", "femur", 70.0,
			78, "GOOD CANDIDATE", "GOOD CANDIDATE", true,
			"", "Standard choice", sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	fb := &Feedback{
		MaterialID:      "ti6al4v_eli",
		BoneSiteID:      "femur",
		WeightKg:        70,
		SuggestedScore:  78,
		SuggestedRank:   RankGoodCandidate,
		ClinicianRank:   RankGoodCandidate,
		ClinicianAgreed: true,
		Notes:           "Standard choice",
	}

	err := store.Save(context.Background(), fb)
	require.NoError(t, err)
	assert.Equal(t, int64(7), fb.ID)
	assert.Equal(t, now, fb.CreatedAt)
}

func TestPostgresStore_Get_Found(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows(feedbackColumns()).AddRow(
		int64(3), "porous_ta", "vertebra", 62.0,
		85, "OPTIMAL MATCH", "OPTIMAL MATCH", true,
		"", "", now, now,
	)
	mock.ExpectQuery(`SELECT id, material_id, bone_site_id`).
		WithArgs("porous_ta", "vertebra").
		WillReturnRows(rows)

	fb, err := store.Get(context.Background(), "porous_ta", "vertebra")
	require.NoError(t, err)
	require.NotNil(t, fb)
	assert.Equal(t, RankOptimalMatch, fb.SuggestedRank)
	assert.Equal(t, 85, fb.SuggestedScore)
	assert.True(t, fb.ClinicianAgreed)
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, material_id, bone_site_id`).
		WithArgs("unobtainium", "femur").
		WillReturnRows(sqlmock.NewRows(feedbackColumns()))

	fb, err := store.Get(context.Background(), "unobtainium", "femur")
	require.NoError(t, err)
	assert.Nil(t, fb)
}

func TestPostgresStore_List(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows(feedbackColumns()).
		AddRow(int64(2), "peek", "vertebra", 60.0, 82, "OPTIMAL MATCH", "OPTIMAL MATCH", true, "", "", now, now).
		AddRow(int64(1), "ti6al4v_eli", "femur", 70.0, 78, "GOOD CANDIDATE", "MARGINAL FIT", false, "porous_ta", "", now, now)
	mock.ExpectQuery(`SELECT id, material_id, bone_site_id`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	list, err := store.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "peek", list[0].MaterialID)
	assert.Equal(t, "porous_ta", list[1].PreferredMaterialID)
}

func TestPostgresStore_Count(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM feedback`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM feedback WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), int64(3))
	require.NoError(t, err)
}
