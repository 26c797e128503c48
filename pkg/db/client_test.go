package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ledgerRow struct {
	ID   int
	Name string `gorm:"uniqueIndex:ux_ledger_name"`
}

func openSQLite(t *testing.T) *Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&ledgerRow{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return &Client{conn: conn}
}

func countRows(t *testing.T, client *Client) int64 {
	t.Helper()
	var count int64
	if err := client.DB().Model(&ledgerRow{}).Count(&count).Error; err != nil {
		t.Fatalf("counting: %v", err)
	}
	return count
}

func TestWithTxCommits(t *testing.T) {
	client := openSQLite(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&ledgerRow{Name: "kept"}).Error
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if got := countRows(t, client); got != 1 {
		t.Fatalf("expected 1 row after commit, got %d", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := openSQLite(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&ledgerRow{Name: "discarded"}).Error; err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected error to surface")
	}
	if got := countRows(t, client); got != 0 {
		t.Fatalf("expected rollback to leave 0 rows, got %d", got)
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	client := openSQLite(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic must propagate")
			}
		}()
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&ledgerRow{Name: "doomed"}).Error; err != nil {
				return err
			}
			panic("mid-transaction")
		})
	}()

	if got := countRows(t, client); got != 0 {
		t.Fatalf("expected rollback after panic, got %d rows", got)
	}
}

func TestPing(t *testing.T) {
	client := openSQLite(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestIsUniqueViolationMessageFallback(t *testing.T) {
	client := openSQLite(t)

	if err := client.DB().Create(&ledgerRow{Name: "dup"}).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := client.DB().Create(&ledgerRow{Name: "dup"}).Error
	if err == nil {
		t.Fatal("expected unique violation")
	}

	if !IsUniqueViolation(err, "") {
		t.Fatalf("sqlite unique violation not detected: %v", err)
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error must not match")
	}
}
