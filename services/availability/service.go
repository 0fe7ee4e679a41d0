package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	userRepo "skillswap/database/repository/user"
	"skillswap/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// SetWindows validates and stores a teacher's declared schedule. Slots are
// normalized to sorted order; overlapping slots within a window are rejected.
func (s *DefaultAvailabilityService) SetWindows(ctx context.Context, teacherID string, windows []models.AvailabilityWindow) error {
	teacher, err := s.Users.GetByID(ctx, teacherID)
	if errors.Is(err, userRepo.ErrUserNotFound) {
		return errTeacherNotFound()
	}
	if err != nil {
		return err
	}
	if !teacher.IsTeacher {
		return errNotTeacher()
	}

	for i := range windows {
		w := &windows[i]
		w.TeacherID = teacherID
		if w.ID == "" {
			w.ID = uuid.New().String()
		}
		if err := validateWindow(w); err != nil {
			return err
		}
	}

	if err := s.Repo.ReplaceForTeacher(ctx, teacherID, windows); err != nil {
		return err
	}
	s.Logger.Info("availability updated",
		zap.String("teacherId", teacherID),
		zap.Int("windows", len(windows)),
	)
	return nil
}

func (s *DefaultAvailabilityService) WindowsForTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error) {
	return s.Repo.GetForTeacher(ctx, teacherID)
}

// ResolveForDate picks the window governing the instant. A specific-date
// window for the same calendar date takes precedence over a recurring weekday
// window; validFrom/validUntil bounds and the active flag filter candidates.
// Returns nil when no window applies.
func (s *DefaultAvailabilityService) ResolveForDate(ctx context.Context, teacherID string, at time.Time) (*models.AvailabilityWindow, error) {
	windows, err := s.Repo.GetForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return resolveWindow(windows, at), nil
}

// FindSlot locates the declared slot fully covering the requested interval.
func (s *DefaultAvailabilityService) FindSlot(ctx context.Context, teacherID string, start time.Time, durationMinutes int) (*models.AvailabilityWindow, *models.BookableSlot, error) {
	win, err := s.ResolveForDate(ctx, teacherID, start)
	if err != nil {
		return nil, nil, err
	}
	if win == nil {
		return nil, nil, errNotOffered()
	}

	local := start.In(windowLocation(win))
	startMin := local.Hour()*60 + local.Minute()
	endMin := startMin + durationMinutes
	if endMin > 24*60 {
		// A booking spilling past midnight is never inside a single window.
		return nil, nil, errNotOffered()
	}

	for i := range win.Slots {
		slot := &win.Slots[i]
		if slot.Start <= startMin && endMin <= slot.End {
			return win, slot, nil
		}
	}
	return nil, nil, errNotOffered()
}

// resolveWindow applies the precedence and validity rules over the candidate
// set. Pure so tests can drive it directly.
func resolveWindow(windows []models.AvailabilityWindow, at time.Time) *models.AvailabilityWindow {
	var recurring *models.AvailabilityWindow
	for i := range windows {
		w := &windows[i]
		if !w.Active {
			continue
		}
		local := at.In(windowLocation(w))
		dateStr := local.Format(dateLayout)
		if !withinValidity(w, dateStr) {
			continue
		}
		if w.Date != "" {
			if w.Date == dateStr {
				return w
			}
			continue
		}
		if w.Weekday != nil && int(local.Weekday()) == *w.Weekday && recurring == nil {
			recurring = w
		}
	}
	return recurring
}

func withinValidity(w *models.AvailabilityWindow, dateStr string) bool {
	if w.ValidFrom != "" && dateStr < w.ValidFrom {
		return false
	}
	if w.ValidUntil != "" && dateStr > w.ValidUntil {
		return false
	}
	return true
}

func windowLocation(w *models.AvailabilityWindow) *time.Location {
	if w.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func validateWindow(w *models.AvailabilityWindow) error {
	if w.Date == "" && w.Weekday == nil {
		return errInvalidWindow("window needs either a date or a weekday")
	}
	if w.Date != "" {
		if _, err := time.Parse(dateLayout, w.Date); err != nil {
			return errInvalidWindow(fmt.Sprintf("invalid window date %q", w.Date))
		}
	}
	if w.Weekday != nil && (*w.Weekday < 0 || *w.Weekday > 6) {
		return errInvalidWindow("weekday must be between 0 (Sunday) and 6 (Saturday)")
	}
	if w.Timezone != "" {
		if _, err := time.LoadLocation(w.Timezone); err != nil {
			return errInvalidWindow(fmt.Sprintf("invalid timezone %q", w.Timezone))
		}
	}
	if len(w.Slots) == 0 {
		return errInvalidWindow("window needs at least one slot")
	}

	sort.Slice(w.Slots, func(i, j int) bool { return w.Slots[i].Start < w.Slots[j].Start })
	for i := range w.Slots {
		slot := &w.Slots[i]
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		if slot.Start < 0 || slot.End > 24*60 || slot.Start >= slot.End {
			return errInvalidWindow(fmt.Sprintf("slot [%d, %d) is out of range", slot.Start, slot.End))
		}
		if i > 0 && slot.Start < w.Slots[i-1].End {
			return errInvalidWindow(fmt.Sprintf("slot [%d, %d) overlaps the previous slot", slot.Start, slot.End))
		}
	}
	return nil
}
