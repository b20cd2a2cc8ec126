package db

import "testing"

func TestConnStringPrefersDSN(t *testing.T) {
	cfg := Config{DSN: "postgres://x@y/z", Host: "ignored"}
	if got := cfg.ConnString(); got != "postgres://x@y/z" {
		t.Fatalf("got %q", got)
	}
}

func TestConnStringFromParts(t *testing.T) {
	cfg := Config{Host: "db", Port: "5433", User: "app", Password: "p@ss", Name: "campus", SSLMode: "require"}
	want := "postgres://app:p%40ss@db:5433/campus?sslmode=require"
	if got := cfg.ConnString(); got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}
