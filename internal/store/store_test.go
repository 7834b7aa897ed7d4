package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/study-productivity/internal/productivity"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fixedClock makes the store stamp records at start, start+step, ...
func fixedClock(s *Store, start time.Time, step time.Duration) {
	next := start
	s.now = func() time.Time {
		t := next
		next = next.Add(step)
		return t
	}
}

func evaluated(hours float64, interruptions productivity.Interruptions, target productivity.Target, tasks int) Record {
	in := productivity.Input{
		Duration:       hours,
		Interruptions:  interruptions,
		Target:         target,
		TasksCompleted: tasks,
		StudyTimeOfDay: productivity.Evening,
	}
	return NewRecord(in, productivity.Evaluate(in))
}

func TestInsertAndGet(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	rec, err := s.Insert(ctx, evaluated(8, productivity.InterruptionsLow, productivity.TargetMet, 6))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if rec.CreatedAt.IsZero() || !rec.CreatedAt.Equal(rec.UpdatedAt) {
		t.Fatalf("expected matching timestamps, got %v / %v", rec.CreatedAt, rec.UpdatedAt)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Input != rec.Input {
		t.Fatalf("input mismatch: %+v vs %+v", got.Input, rec.Input)
	}
	if got.Result != rec.Result {
		t.Fatalf("result mismatch: %+v vs %+v", got.Result, rec.Result)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("created_at mismatch: %v vs %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestGetMissing(t *testing.T) {
	s := tempDB(t)
	_, err := s.Get(context.Background(), "does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()
	fixedClock(s, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), time.Hour)

	var ids []string
	for i := 0; i < 5; i++ {
		rec, err := s.Insert(ctx, evaluated(float64(i+1), productivity.InterruptionsMedium, productivity.TargetPartial, i))
		if err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
		ids = append(ids, rec.ID)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 records, got %d", len(all))
	}
	if all[0].ID != ids[4] || all[4].ID != ids[0] {
		t.Fatal("expected newest record first")
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 || limited[1].ID != ids[3] {
		t.Fatalf("unexpected limited list: %d records", len(limited))
	}
}

func TestUpdate(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()
	fixedClock(s, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), time.Minute)

	rec, err := s.Insert(ctx, evaluated(1, productivity.InterruptionsHigh, productivity.TargetNotMet, 0))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	changed := evaluated(8, productivity.InterruptionsLow, productivity.TargetMet, 6)
	updated, err := s.Update(ctx, rec.ID, changed)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != rec.ID || !updated.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatal("update should keep id and creation time")
	}
	if !updated.UpdatedAt.After(rec.UpdatedAt) {
		t.Fatal("expected updated_at to advance")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Score != changed.Score || got.Category != productivity.CategoryOptimal {
		t.Fatalf("expected re-evaluated result, got %+v", got.Result)
	}
	if got.Duration != 8 || got.Interruptions != productivity.InterruptionsLow {
		t.Fatalf("expected replaced input, got %+v", got.Input)
	}
}

func TestUpdateMissing(t *testing.T) {
	s := tempDB(t)
	_, err := s.Update(context.Background(), "nope", evaluated(2, productivity.InterruptionsLow, productivity.TargetMet, 1))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	rec, err := s.Insert(ctx, evaluated(3, productivity.InterruptionsLow, productivity.TargetPartial, 2))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
	if err := s.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteRemovesTraces(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	keep, err := s.Insert(ctx, evaluated(3, productivity.InterruptionsLow, productivity.TargetPartial, 2))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	gone, err := s.Insert(ctx, evaluated(8, productivity.InterruptionsLow, productivity.TargetMet, 6))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	for _, id := range []string{keep.ID, gone.ID, gone.ID} {
		if _, err := s.DB().ExecContext(ctx,
			`INSERT INTO evaluation_trace (evaluation_id, trigger_type, trace_json, score, category, created_at) VALUES (?, 'http', '{}', 0, 'Adequate', ?)`,
			id, time.Now().UTC().Format(TimeLayout)); err != nil {
			t.Fatalf("insert trace: %v", err)
		}
	}

	if err := s.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	count := func(id string) int {
		var n int
		if err := s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluation_trace WHERE evaluation_id = ?`, id).Scan(&n); err != nil {
			t.Fatalf("count traces: %v", err)
		}
		return n
	}
	if n := count(gone.ID); n != 0 {
		t.Fatalf("expected traces of deleted record removed, got %d", n)
	}
	if n := count(keep.ID); n != 1 {
		t.Fatalf("expected other record's trace kept, got %d", n)
	}
}

func TestDashboardEmpty(t *testing.T) {
	s := tempDB(t)
	stats, err := s.Dashboard(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.TodayScore != 0 || stats.TodayCategory != "-" {
		t.Fatalf("expected empty today stats, got %+v", stats)
	}
	if stats.WeeklyData == nil || len(stats.WeeklyData) != 0 {
		t.Fatalf("expected empty weekly data slice, got %v", stats.WeeklyData)
	}
}

func TestDashboard(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	// Nine daily records ending Wednesday 2026-03-11.
	fixedClock(s, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), 24*time.Hour)
	var last Record
	for i := 0; i < 9; i++ {
		rec, err := s.Insert(ctx, evaluated(float64(i), productivity.InterruptionsLow, productivity.TargetMet, 3))
		if err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
		last = rec
	}

	now := time.Date(2026, 3, 11, 20, 0, 0, 0, time.UTC)
	stats, err := s.Dashboard(ctx, now)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.TodayScore != last.Score || stats.TodayCategory != string(last.Category) {
		t.Fatalf("expected today's record %d/%s, got %+v", last.Score, last.Category, stats)
	}
	if len(stats.WeeklyData) != WeeklyWindow {
		t.Fatalf("expected %d weekly points, got %d", WeeklyWindow, len(stats.WeeklyData))
	}
	names := make([]string, len(stats.WeeklyData))
	for i, p := range stats.WeeklyData {
		names[i] = p.Name
	}
	if got := strings.Join(names, ","); got != "Thu,Fri,Sat,Sun,Mon,Tue,Wed" {
		t.Fatalf("unexpected weekday order: %s", got)
	}
	if stats.WeeklyData[6].Score != last.Score {
		t.Fatal("expected chronological order ending with the latest record")
	}

	tomorrow, err := s.Dashboard(ctx, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Dashboard tomorrow: %v", err)
	}
	if tomorrow.TodayCategory != "-" {
		t.Fatalf("expected no record for tomorrow, got %+v", tomorrow)
	}
}

func TestNewStoreRejectsUnknownDriver(t *testing.T) {
	if _, err := NewStore("postgres", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMySQLConfigDSN(t *testing.T) {
	dsn := MySQLConfig{Host: "db", Port: "3306", Username: "u", Password: "p", Database: "study"}.DSN()
	if !strings.HasPrefix(dsn, "u:p@tcp(db:3306)/study") {
		t.Fatalf("unexpected dsn: %s", dsn)
	}
}
