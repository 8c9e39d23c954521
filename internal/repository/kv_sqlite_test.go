package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockKV(t *testing.T) (*KVSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewKVSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestKVSQLite_Get(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		mockExpect func(sqlmock.Sqlmock)
		wantValue  string
		wantFound  bool
		wantErr    bool
	}{
		{
			name: "found",
			key:  "auth_token",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectKVSQL)).
					WithArgs("auth_token").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok"))
			},
			wantValue: "tok",
			wantFound: true,
		},
		{
			name: "missing key is not an error",
			key:  "device_id",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectKVSQL)).
					WithArgs("device_id").
					WillReturnError(sql.ErrNoRows)
			},
			wantFound: false,
		},
		{
			name: "query error is wrapped",
			key:  "auth_user",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectKVSQL)).
					WithArgs("auth_user").
					WillReturnError(errors.New("disk I/O error"))
			},
			wantErr: true,
		},
		{
			name:       "empty key rejected before query",
			key:        "",
			mockExpect: func(sqlmock.Sqlmock) {},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockKV(t)
			defer cleanup()
			tt.mockExpect(mock)

			got, found, err := repo.Get(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get() err = %v, wantErr %v", err, tt.wantErr)
			}
			if found != tt.wantFound {
				t.Errorf("Get() found = %v, want %v", found, tt.wantFound)
			}
			if got != tt.wantValue {
				t.Errorf("Get() value = %q, want %q", got, tt.wantValue)
			}
		})
	}
}

func TestKVSQLite_Set_UpsertsWithUTCTimestamp(t *testing.T) {
	repo, mock, cleanup := newMockKV(t)
	defer cleanup()

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store")).
		WithArgs("saved_latitude", "39.92", isUTCRecent).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Set("saved_latitude", "39.92"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
}

func TestKVSQLite_Set_ExecError(t *testing.T) {
	repo, mock, cleanup := newMockKV(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store")).
		WithArgs("k", "v", sqlmock.AnyArg()).
		WillReturnError(errors.New("readonly database"))

	err := repo.Set("k", "v")
	if err == nil || !strings.Contains(err.Error(), "readonly database") {
		t.Fatalf("Set() error = %v, want wrapped readonly error", err)
	}
}

func TestKVSQLite_Remove(t *testing.T) {
	repo, mock, cleanup := newMockKV(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteKVSQL)).
		WithArgs("auth_token").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Remove("auth_token"); err != nil {
		t.Fatalf("Remove() of missing key should succeed, got %v", err)
	}
}

// Helpers

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
