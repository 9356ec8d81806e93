package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dertown/dertown-api/internal/dto"
	"github.com/dertown/dertown-api/internal/feed"
	"github.com/dertown/dertown-api/internal/models"
	"github.com/dertown/dertown-api/internal/recurrence"
	"github.com/dertown/dertown-api/internal/timezone"
	appErrors "github.com/dertown/dertown-api/pkg/errors"
)

type activityRepository interface {
	List(ctx context.Context) ([]models.ActivityDetail, error)
	FindByID(ctx context.Context, id string) (*models.ActivityDetail, error)
	GetPattern(ctx context.Context, patternID string) (*models.RecurrencePattern, error)
	ListExceptions(ctx context.Context, activityID, startDate, endDate string) ([]models.CalendarException, error)
}

// CalendarService expands recurring activity schedules into concrete,
// exception-resolved occurrences and renders the admin activity export.
type CalendarService struct {
	activities activityRepository
	cache      *CacheService
	conv       *timezone.Converter
	uidHost    string
	logger     *zap.Logger
	now        func() time.Time
}

// NewCalendarService constructs the service. The cache may be nil.
func NewCalendarService(activities activityRepository, cache *CacheService, conv *timezone.Converter, uidHost string, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{activities: activities, cache: cache, conv: conv, uidHost: uidHost, logger: logger, now: time.Now}
}

// ListActivities returns the approved recurring programs.
func (s *CalendarService) ListActivities(ctx context.Context) ([]models.ActivityDetail, error) {
	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	return activities, nil
}

// Occurrences expands an activity's recurrence pattern over the query
// range and applies calendar exceptions. Activities without a pattern
// yield an empty list.
func (s *CalendarService) Occurrences(ctx context.Context, req dto.OccurrenceRequest) ([]dto.Occurrence, error) {
	if req.StartDate == "" || req.EndDate == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date and end_date are required")
	}

	cacheKey := fmt.Sprintf("occurrences:%s:%s:%s", req.ActivityID, req.StartDate, req.EndDate)
	var cached []dto.Occurrence
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	activity, err := s.getActivity(ctx, req.ActivityID)
	if err != nil {
		return nil, err
	}
	occurrences, err := s.expand(ctx, activity, recurrence.Bounds{Start: req.StartDate, End: req.EndDate})
	if err != nil {
		return nil, err
	}

	out := make([]dto.Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, s.toDTO(occ))
	}
	_ = s.cache.Set(ctx, cacheKey, out, 0)
	return out, nil
}

// ActivityICal renders the admin activity export: one VEVENT carrying an
// RRULE for the recurrence pattern, plus exception VEVENTs, so the
// schedule can be imported into an external calendar.
func (s *CalendarService) ActivityICal(ctx context.Context, activityID string) ([]byte, string, error) {
	activity, err := s.getActivity(ctx, activityID)
	if err != nil {
		return nil, "", err
	}

	now := s.now().UTC().Format("20060102T150405Z")
	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//Der Town//Activities Calendar//EN")
	writeLine("CALSCALE:GREGORIAN")
	writeLine("METHOD:PUBLISH")

	if activity.RecurrencePatternID != nil {
		pattern, err := s.activities.GetPattern(ctx, *activity.RecurrencePatternID)
		if err != nil && err != sql.ErrNoRows {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recurrence pattern")
		}
		if pattern != nil {
			seasonStart := activity.SeasonStart
			if seasonStart == nil {
				today := s.conv.Today(s.now())
				seasonStart = &today
			}
			startTime := pattern.StartTime
			endTime := pattern.EndTime
			start, err := s.conv.ToInstant(*seasonStart, &startTime)
			if err != nil {
				return nil, "", appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "activity has an invalid schedule")
			}
			end, err := s.conv.ToInstant(*seasonStart, &endTime)
			if err != nil {
				return nil, "", appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "activity has an invalid schedule")
			}
			writeLine("BEGIN:VEVENT")
			writeLine(fmt.Sprintf("UID:%s@%s", activity.ID, s.uidHost))
			writeLine("DTSTAMP:" + now)
			writeLine(fmt.Sprintf("DTSTART;TZID=%s:%s", s.conv.Zone(), start.ReferenceBasic()))
			writeLine(fmt.Sprintf("DTEND;TZID=%s:%s", s.conv.Zone(), end.ReferenceBasic()))
			writeLine("SUMMARY:" + feed.EscapeICalText(activity.Name))
			if activity.Description != nil && *activity.Description != "" {
				writeLine("DESCRIPTION:" + feed.EscapeICalText(*activity.Description))
			}
			writeLine("RRULE:" + buildRRule(pattern, activity.SeasonEnd))
			writeLine("END:VEVENT")
		}
	}

	if !activity.IgnoreExceptions {
		rangeStart, rangeEnd := s.exportRange(activity)
		exceptions, err := s.activities.ListExceptions(ctx, activity.ID, rangeStart, rangeEnd)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar exceptions")
		}
		for _, exc := range exceptions {
			writeLine("BEGIN:VEVENT")
			writeLine(fmt.Sprintf("UID:%s@%s", exc.ExceptionID, s.uidHost))
			writeLine("DTSTAMP:" + now)
			writeLine(fmt.Sprintf("DTSTART;TZID=%s:%s", s.conv.Zone(), strings.ReplaceAll(exc.StartDate, "-", "")+"T000000"))
			writeLine(fmt.Sprintf("DTEND;TZID=%s:%s", s.conv.Zone(), strings.ReplaceAll(exc.EndDate, "-", "")+"T235959"))
			writeLine("SUMMARY:" + feed.EscapeICalText(exc.Name))
			if exc.Notes != nil && *exc.Notes != "" {
				writeLine("DESCRIPTION:" + feed.EscapeICalText(*exc.Notes))
			}
			writeLine("END:VEVENT")
		}
	}

	writeLine("END:VCALENDAR")
	return []byte(b.String()), feed.Filename(activity.Name), nil
}

func (s *CalendarService) getActivity(ctx context.Context, id string) (*models.ActivityDetail, error) {
	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get activity")
	}
	return activity, nil
}

func (s *CalendarService) expand(ctx context.Context, activity *models.ActivityDetail, query recurrence.Bounds) ([]recurrence.Occurrence, error) {
	if activity.RecurrencePatternID == nil {
		return nil, nil
	}
	row, err := s.activities.GetPattern(ctx, *activity.RecurrencePatternID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recurrence pattern")
	}

	pattern := recurrence.Pattern{
		ID:        row.PatternID,
		Weekdays:  make(map[time.Weekday]bool, len(row.Weekdays)),
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Interval:  row.Interval,
		Until:     row.Until,
	}
	for _, code := range row.Weekdays {
		day, ok := recurrence.WeekdayFromCode(code)
		if !ok {
			s.logger.Warn("ignoring unknown weekday code",
				zap.String("pattern_id", row.PatternID),
				zap.String("code", code))
			continue
		}
		pattern.Weekdays[day] = true
	}

	season := recurrence.Bounds{}
	if activity.SeasonStart != nil {
		season.Start = *activity.SeasonStart
	}
	if activity.SeasonEnd != nil {
		season.End = *activity.SeasonEnd
	}

	meta := recurrence.Meta{
		ActivityID: activity.ID,
		Title:      activity.Name,
	}
	if activity.Description != nil {
		meta.Description = *activity.Description
	}
	if activity.LocationName != nil {
		meta.Location = *activity.LocationName
	} else if activity.LocationDetails != nil {
		meta.Location = *activity.LocationDetails
	}
	if activity.Color != nil {
		meta.Color = *activity.Color
	}

	occurrences, err := recurrence.Expand(s.conv, pattern, season, query, meta)
	if err != nil {
		if errors.Is(err, timezone.ErrInvalidDate) {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "activity has an invalid schedule")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expand schedule")
	}

	if activity.IgnoreExceptions || len(occurrences) == 0 {
		return occurrences, nil
	}

	rows, err := s.activities.ListExceptions(ctx, activity.ID, query.Start, query.End)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar exceptions")
	}
	exceptions := make([]recurrence.Exception, 0, len(rows))
	for _, row := range rows {
		exc := recurrence.Exception{
			ID:         row.ExceptionID,
			ActivityID: row.ActivityID,
			StartDate:  row.StartDate,
			EndDate:    row.EndDate,
			StartTime:  row.StartTime,
			EndTime:    row.EndTime,
			Name:       row.Name,
		}
		if row.Notes != nil {
			exc.Notes = *row.Notes
		}
		exceptions = append(exceptions, exc)
	}
	return recurrence.Resolve(occurrences, exceptions), nil
}

func (s *CalendarService) toDTO(occ recurrence.Occurrence) dto.Occurrence {
	date, startTime := s.conv.ReferenceComponents(occ.Start)
	_, endTime := s.conv.ReferenceComponents(occ.End)
	out := dto.Occurrence{
		ID:          occ.ID,
		ActivityID:  occ.ActivityID,
		Title:       occ.Title,
		Description: occ.Description,
		Location:    occ.Location,
		Color:       occ.Color,
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		Start:       occ.Start.OffsetISO8601(),
		End:         occ.End.OffsetISO8601(),
		StartUTC:    occ.Start.UTCExtended(),
		EndUTC:      occ.End.UTCExtended(),
		AllDay:      occ.AllDay,
		IsException: occ.State == recurrence.StateException,
	}
	if occ.Exception != nil {
		id := occ.Exception.ID
		name := occ.Exception.Name
		out.ExceptionID = &id
		out.ExceptionName = &name
	}
	return out
}

// exportRange bounds the exception lookup for the admin export when the
// activity has open season bounds.
func (s *CalendarService) exportRange(activity *models.ActivityDetail) (string, string) {
	start := s.conv.Today(s.now())
	if activity.SeasonStart != nil {
		start = *activity.SeasonStart
	}
	end := start
	if activity.SeasonEnd != nil {
		end = *activity.SeasonEnd
	} else if horizon, err := s.conv.AddDays(start, 365); err == nil {
		end = horizon
	}
	return start, end
}

// buildRRule emits the weekly RRULE subset the site supports.
func buildRRule(pattern *models.RecurrencePattern, seasonEnd *string) string {
	parts := []string{"FREQ=WEEKLY"}
	if pattern.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", pattern.Interval))
	}
	if len(pattern.Weekdays) > 0 {
		parts = append(parts, "BYDAY="+strings.Join(pattern.Weekdays, ","))
	}
	until := pattern.Until
	if until == nil {
		until = seasonEnd
	}
	if until != nil {
		parts = append(parts, "UNTIL="+strings.ReplaceAll(*until, "-", "")+"T235959Z")
	}
	return strings.Join(parts, ";")
}
