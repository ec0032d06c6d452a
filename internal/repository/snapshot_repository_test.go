package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/snapshot"
)

func newMockRepo(t *testing.T) (*SnapshotRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSnapshotRepo(db), mock
}

func TestSnapshotRepo_Save(t *testing.T) {
	t.Run("Should insert the encoded state", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		st := snapshot.State{
			TakenAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
			Courses: []model.Course{{ID: 1, Title: "Go", Instructor: "alice"}},
		}
		payload, err := json.Marshal(st)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registry_snapshots (taken_at, payload) VALUES (?, ?)")).
			WithArgs(st.TakenAt, payload).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Save(context.Background(), st))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should wrap database errors", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("INSERT INTO registry_snapshots").WillReturnError(errors.New("gone away"))
		err := repo.Save(context.Background(), snapshot.State{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insert snapshot")
	})
}

func TestSnapshotRepo_Latest(t *testing.T) {
	t.Run("Should decode the newest row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		want := snapshot.State{
			Videos:   []model.Video{{ID: 4, Title: "intro", Uploader: "bob"}},
			Counters: map[model.Kind]uint64{model.KindVideo: 5},
		}
		payload, _ := json.Marshal(want)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM registry_snapshots ORDER BY id DESC LIMIT 1")).
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

		got, err := repo.Latest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want.Videos, got.Videos)
		assert.Equal(t, uint64(5), got.Counters[model.KindVideo])
	})

	t.Run("Should report an empty table", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT payload FROM registry_snapshots").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}))
		_, err := repo.Latest(context.Background())
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})
}

func TestSnapshotRepo_Prune(t *testing.T) {
	t.Run("Should keep the newest rows", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("DELETE FROM registry_snapshots").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 2))
		require.NoError(t, repo.Prune(context.Background(), 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should skip pruning when keep is not positive", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		require.NoError(t, repo.Prune(context.Background(), 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSnapshotRepo_EnsureSchema(t *testing.T) {
	t.Run("Should create the table if missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS registry_snapshots").WillReturnResult(sqlmock.NewResult(0, 0))
		require.NoError(t, repo.EnsureSchema(context.Background()))
	})
}
