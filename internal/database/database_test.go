package database

import "testing"

func TestConnectSqlite(t *testing.T) {
	db, err := Connect("file:database_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB() returned error: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}
