package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"skillswap/api/internal/models"
)

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func TestUsersCSV(t *testing.T) {
	created := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	users := []models.User{
		{
			FullName: "Alice Smith",
			Email:    "alice@example.com",
			Username: "alice",
			Location: "Berlin",
			SkillsOffered: []models.SkillOffered{
				{Name: "Guitar"}, {Name: "Piano"},
			},
			SkillsWanted: []models.SkillWanted{
				{Name: "Spanish"},
			},
			IsProfilePublic: true,
			CreatedAt:       created,
		},
	}

	data, err := usersCSV(users)
	if err != nil {
		t.Fatalf("usersCSV: %v", err)
	}

	rows := parseCSV(t, data)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][0] != "Full Name" {
		t.Errorf("header = %v", rows[0])
	}

	row := rows[1]
	if row[0] != "Alice Smith" || row[2] != "alice" {
		t.Errorf("row = %v", row)
	}
	if row[4] != "Guitar; Piano" {
		t.Errorf("skills offered = %q", row[4])
	}
	if row[6] != "true" || row[7] != "false" {
		t.Errorf("flags = %q %q", row[6], row[7])
	}
	if row[8] != "2026-08-15" {
		t.Errorf("registration date = %q", row[8])
	}
}

func TestSwapsCSV(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	done := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)
	swaps := []models.SwapRequest{
		{
			RequesterID:  "alice",
			RequestedID:  "bob",
			SkillOffered: models.SkillSnapshot{Name: "Guitar"},
			SkillWanted:  models.SkillSnapshot{Name: "Spanish"},
			Status:       models.SwapStatusCompleted,
			CreatedAt:    created,
			CompletedAt:  &done,
		},
		{
			RequesterID:  "carol",
			RequestedID:  "dave",
			SkillOffered: models.SkillSnapshot{Name: "Baking"},
			SkillWanted:  models.SkillSnapshot{Name: "Yoga"},
			Status:       models.SwapStatusPending,
			CreatedAt:    created,
		},
	}

	data, err := swapsCSV(swaps)
	if err != nil {
		t.Fatalf("swapsCSV: %v", err)
	}

	rows := parseCSV(t, data)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][6] != "2026-08-20" {
		t.Errorf("completed date = %q", rows[1][6])
	}
	if rows[2][6] != "N/A" {
		t.Errorf("pending swap completed date = %q, want N/A", rows[2][6])
	}
}

func TestActivityCSV(t *testing.T) {
	swaps := []models.SwapRequest{
		{Status: models.SwapStatusCompleted},
		{Status: models.SwapStatusCompleted},
		{Status: models.SwapStatusPending},
		{Status: models.SwapStatusCancelled},
	}

	data, err := activityCSV(42, swaps)
	if err != nil {
		t.Fatalf("activityCSV: %v", err)
	}

	rows := parseCSV(t, data)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	if rows[1][1] != "42" {
		t.Errorf("total users = %q", rows[1][1])
	}
	if rows[2][1] != "4" || rows[3][1] != "2" {
		t.Errorf("swap counts = %q %q", rows[2][1], rows[3][1])
	}
	if rows[4][1] != "50.00%" {
		t.Errorf("completion rate = %q", rows[4][1])
	}
}

func TestActivityCSVEmptyWindow(t *testing.T) {
	data, err := activityCSV(0, nil)
	if err != nil {
		t.Fatalf("activityCSV: %v", err)
	}
	rows := parseCSV(t, data)
	if rows[4][1] != "0%" {
		t.Errorf("completion rate with no swaps = %q, want 0%%", rows[4][1])
	}
}
