package postgres_repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewPostgresFlagRepository(db)
	mock.ExpectQuery(`SELECT topic_id, flag FROM topic_flags WHERE store=\$1`).
		WithArgs("read_topics").
		WillReturnRows(sqlmock.NewRows([]string{"topic_id", "flag"}).AddRow("t1", true).AddRow("t2", false))

	all, err := repo.All(context.Background(), "read_topics")
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 || !all["t1"] || all["t2"] {
		t.Fatalf("unexpected flags %v", all)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresPutBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewPostgresFlagRepository(db)
	mock.ExpectExec(`INSERT INTO topic_flags`).
		WithArgs("favorite_topics", sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.Put(context.Background(), "favorite_topics", []string{"t1", "t2"}, true); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Put(context.Background(), "favorite_topics", nil, true); err != nil {
		t.Fatalf("empty Put should be a no-op: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewPostgresFlagRepository(db)
	mock.ExpectQuery(`SELECT flag FROM topic_flags WHERE store=\$1 AND topic_id=\$2`).
		WithArgs("read_topics", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"flag"}))
	mock.ExpectExec(`DELETE FROM topic_flags WHERE store=\$1 AND topic_id=\$2`).
		WithArgs("read_topics", "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	v, ok, err := repo.Get(context.Background(), "read_topics", "nope")
	if err != nil || ok || v {
		t.Fatalf("expected absent flag, got %v %v %v", v, ok, err)
	}
	if err := repo.Delete(context.Background(), "read_topics", "nope"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
