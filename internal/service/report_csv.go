package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"skillswap/api/internal/models"
	"skillswap/api/internal/repository"
)

const csvReportWindow = 30 * 24 * time.Hour

// ExportCSV renders a downloadable report covering the last 30 days.
// Supported kinds: users, swaps, activity.
func (s *AdminService) ExportCSV(ctx context.Context, kind string) ([]byte, string, error) {
	since := time.Now().Add(-csvReportWindow)

	switch kind {
	case "users":
		users, err := s.users.CreatedSince(ctx, since)
		if err != nil {
			return nil, "", err
		}
		data, err := usersCSV(users)
		return data, csvFilename(kind), err

	case "swaps":
		swaps, err := s.swaps.CreatedSince(ctx, since)
		if err != nil {
			return nil, "", err
		}
		data, err := swapsCSV(swaps)
		return data, csvFilename(kind), err

	case "activity":
		totalUsers, err := s.users.Count(ctx, repository.UserFilter{})
		if err != nil {
			return nil, "", err
		}
		swaps, err := s.swaps.CreatedSince(ctx, since)
		if err != nil {
			return nil, "", err
		}
		data, err := activityCSV(totalUsers, swaps)
		return data, csvFilename(kind), err
	}

	return nil, "", fmt.Errorf("%w: unknown report type %q", ErrValidation, kind)
}

func csvFilename(kind string) string {
	return fmt.Sprintf("%s_report_%s.csv", kind, time.Now().Format("2006-01-02"))
}

func usersCSV(users []models.User) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"Full Name", "Email", "Username", "Location",
		"Skills Offered", "Skills Wanted", "Profile Public", "Banned", "Registration Date",
	}); err != nil {
		return nil, err
	}

	for _, user := range users {
		offered := make([]string, 0, len(user.SkillsOffered))
		for _, skill := range user.SkillsOffered {
			offered = append(offered, skill.Name)
		}
		wanted := make([]string, 0, len(user.SkillsWanted))
		for _, skill := range user.SkillsWanted {
			wanted = append(wanted, skill.Name)
		}

		if err := w.Write([]string{
			user.FullName,
			user.Email,
			user.Username,
			user.Location,
			strings.Join(offered, "; "),
			strings.Join(wanted, "; "),
			strconv.FormatBool(user.IsProfilePublic),
			strconv.FormatBool(user.IsBanned),
			user.CreatedAt.Format("2006-01-02"),
		}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func swapsCSV(swaps []models.SwapRequest) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"Requester", "Requested", "Skill Offered", "Skill Wanted",
		"Status", "Created Date", "Completed Date",
	}); err != nil {
		return nil, err
	}

	for _, swap := range swaps {
		completed := "N/A"
		if swap.CompletedAt != nil {
			completed = swap.CompletedAt.Format("2006-01-02")
		}
		if err := w.Write([]string{
			swap.RequesterID,
			swap.RequestedID,
			swap.SkillOffered.Name,
			swap.SkillWanted.Name,
			string(swap.Status),
			swap.CreatedAt.Format("2006-01-02"),
			completed,
		}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func activityCSV(totalUsers int, recentSwaps []models.SwapRequest) ([]byte, error) {
	completed := 0
	for _, swap := range recentSwaps {
		if swap.Status == models.SwapStatusCompleted {
			completed++
		}
	}

	rate := "0%"
	if len(recentSwaps) > 0 {
		rate = fmt.Sprintf("%.2f%%", float64(completed)/float64(len(recentSwaps))*100)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Metric", "Value", "Period"},
		{"Total Users", strconv.Itoa(totalUsers), "All Time"},
		{"Total Swaps (30 days)", strconv.Itoa(len(recentSwaps)), "Last 30 Days"},
		{"Completed Swaps (30 days)", strconv.Itoa(completed), "Last 30 Days"},
		{"Completion Rate", rate, "Last 30 Days"},
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
