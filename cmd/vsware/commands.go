package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"

	"github.com/pscheid92/vsware/vsware"
)

type options struct {
	command string
	learner string
	from    string
	to      string
	width   int
	height  int
	all     bool
}

var commands = map[string]func(*app, context.Context, *options) error{
	"learners":        (*app).learners,
	"profile":         (*app).profile,
	"timetable":       (*app).timetable,
	"attendance":      (*app).attendance,
	"assessments":     (*app).assessments,
	"behaviour":       (*app).behaviour,
	"notifications":   (*app).notifications,
	"print-timetable": (*app).printTimetable,
	"renew":           (*app).renew,
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := pflag.NewFlagSet("vsware", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVarP(&opts.learner, "learner", "l", "", "learner id (default: VSWARE_LEARNER_ID or the first learner)")
	fs.StringVar(&opts.from, "from", "", "timetable start, YYYY-M-D (default: this Monday)")
	fs.StringVar(&opts.to, "to", "", "timetable end, YYYY-M-D (default: this Friday)")
	fs.IntVar(&opts.width, "width", 1200, "printable timetable width")
	fs.IntVar(&opts.height, "height", 800, "printable timetable height")
	fs.BoolVar(&opts.all, "all", false, "attendance: list every attendance code, not only parent-visible ones")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one command")
	}

	opts.command = fs.Arg(0)
	if _, ok := commands[opts.command]; !ok && opts.command != "version" {
		return nil, fmt.Errorf("unknown command %q", opts.command)
	}
	return opts, nil
}

// weekRange returns Monday and Friday of the week containing now. Saturday and Sunday roll
// forward to the coming week.
func weekRange(now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch day.Weekday() {
	case time.Saturday:
		day = day.AddDate(0, 0, 2)
	case time.Sunday:
		day = day.AddDate(0, 0, 1)
	}
	monday := day.AddDate(0, 0, -int(day.Weekday()-time.Monday))
	return monday, monday.AddDate(0, 0, 4)
}

type app struct {
	client    *vsware.Client
	out       io.Writer
	clock     clockwork.Clock
	learnerID string
}

func (a *app) login(ctx context.Context, username, password string) error {
	if _, err := a.client.Setup(ctx); err != nil {
		return fmt.Errorf("failed to set up session: %w", err)
	}
	if _, err := a.client.Login(ctx, username, password); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	return nil
}

func (a *app) run(ctx context.Context, opts *options) error {
	cmd, ok := commands[opts.command]
	if !ok {
		return fmt.Errorf("unknown command %q", opts.command)
	}
	return cmd(a, ctx, opts)
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// learner picks the configured learner, or the first one on the account.
func (a *app) learner(ctx context.Context) (vsware.IndividualLearner, error) {
	resp, err := a.client.GetLearners(ctx)
	if err != nil {
		return vsware.IndividualLearner{}, fmt.Errorf("failed to get learners: %w", err)
	}
	if len(resp.Data) == 0 {
		return vsware.IndividualLearner{}, errors.New("no learners linked to this account")
	}
	if a.learnerID == "" {
		return resp.Data[0], nil
	}
	for _, l := range resp.Data {
		if strconv.FormatInt(l.LearnerID, 10) == a.learnerID {
			return l, nil
		}
	}
	return vsware.IndividualLearner{}, fmt.Errorf("learner %s not found", a.learnerID)
}

type learnerSummary struct {
	vsware.IndividualLearner
	Tenant string `json:"tenant"`
}

func (a *app) learners(ctx context.Context, _ *options) error {
	resp, err := a.client.GetLearners(ctx)
	if err != nil {
		return fmt.Errorf("failed to get learners: %w", err)
	}
	out := make([]learnerSummary, 0, len(resp.Data))
	for _, l := range resp.Data {
		out = append(out, learnerSummary{IndividualLearner: l, Tenant: a.client.TenantForLearner(l)})
	}
	return a.print(out)
}

func (a *app) profile(ctx context.Context, _ *options) error {
	learner, err := a.learner(ctx)
	if err != nil {
		return err
	}

	locale, err := a.client.GetLocale(ctx)
	if err != nil {
		return fmt.Errorf("failed to get locale: %w", err)
	}
	roles, err := a.client.GetSecurityRoles(ctx)
	if err != nil {
		return fmt.Errorf("failed to get security roles: %w", err)
	}
	details, err := a.client.GetParentalDetails(ctx)
	if err != nil {
		return fmt.Errorf("failed to get parental details: %w", err)
	}
	personal, err := a.client.GetPersonalInfo(ctx, learner.ID())
	if err != nil {
		return fmt.Errorf("failed to get personal info: %w", err)
	}
	school, err := a.client.GetSchoolInfo(ctx, learner.ID())
	if err != nil {
		return fmt.Errorf("failed to get school info: %w", err)
	}

	return a.print(map[string]any{
		"locale":          locale.Data,
		"securityRoles":   roles.Data,
		"parentalDetails": details.Data,
		"personalInfo":    personal.Data,
		"schoolInfo":      school.Data,
	})
}

func (a *app) timetable(ctx context.Context, opts *options) error {
	learner, err := a.learner(ctx)
	if err != nil {
		return err
	}

	monday, friday := weekRange(a.clock.Now())
	start, end := vsware.Date(monday), vsware.Date(friday)
	if opts.from != "" {
		start = vsware.DateString(opts.from)
	}
	if opts.to != "" {
		end = vsware.DateString(opts.to)
	}

	resp, err := a.client.GetTimetable(ctx, learner.ID(), start, end)
	if err != nil {
		return fmt.Errorf("failed to get timetable: %w", err)
	}
	return a.print(resp.Data)
}

func (a *app) attendance(ctx context.Context, opts *options) error {
	learner, err := a.learner(ctx)
	if err != nil {
		return err
	}

	years, err := a.client.GetAcademicYears(ctx, learner.ID())
	if err != nil {
		return fmt.Errorf("failed to get academic years: %w", err)
	}
	year, ok := vsware.CurrentAcademicYear(years.Data)
	if !ok {
		return errors.New("no current academic year")
	}

	overview, err := a.client.GetAttendanceRecordOverview(ctx, learner.ID(), vsware.IntID(year.ID))
	if err != nil {
		return fmt.Errorf("failed to get attendance overview: %w", err)
	}

	scope := vsware.AttendanceCodesDefault
	if opts.all {
		scope = vsware.AttendanceCodesAll
	}
	codes, err := a.client.GetAttendanceCodes(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to get attendance codes: %w", err)
	}

	return a.print(map[string]any{
		"academicYear": year,
		"overview":     overview.Data,
		"codes":        codes.Data,
	})
}

type assessmentReport struct {
	Assessment vsware.AssessmentInfo             `json:"assessment"`
	Results    []vsware.TeacherAssessmentComment `json:"results"`
	Comments   []vsware.OverviewComment          `json:"comments"`
}

func (a *app) assessments(ctx context.Context, _ *options) error {
	learner, err := a.learner(ctx)
	if err != nil {
		return err
	}
	tenant := vsware.StringID(a.client.TenantForLearner(learner))

	list, err := a.client.GetAssessments(ctx, learner.ID(), tenant)
	if err != nil {
		return fmt.Errorf("failed to get assessments: %w", err)
	}

	reports := make([]assessmentReport, 0, len(list.Data))
	for _, info := range list.Data {
		id := vsware.IntID(info.ID)
		results, err := a.client.GetTeacherCommentsAndResultsForAssessment(ctx, tenant, learner.ID(), id)
		if err != nil {
			return fmt.Errorf("failed to get results for assessment %d: %w", info.ID, err)
		}
		comments, err := a.client.GetOverviewCommentsForAssessment(ctx, tenant, learner.ID(), id)
		if err != nil {
			return fmt.Errorf("failed to get comments for assessment %d: %w", info.ID, err)
		}
		reports = append(reports, assessmentReport{Assessment: info, Results: results.Data, Comments: comments.Data})
	}
	return a.print(reports)
}

func (a *app) behaviour(ctx context.Context, _ *options) error {
	learner, err := a.learner(ctx)
	if err != nil {
		return err
	}

	basic, err := a.client.GetBasicBehaviourData(ctx, learner.ID())
	if err != nil {
		return fmt.Errorf("failed to get behaviour summary: %w", err)
	}
	full, err := a.client.GetFullBehaviour(ctx, learner.ID())
	if err != nil {
		return fmt.Errorf("failed to get behaviour incidents: %w", err)
	}

	return a.print(map[string]any{
		"summary": basic.Data,
		"ledger":  full.Data,
	})
}

func (a *app) notifications(ctx context.Context, _ *options) error {
	count, err := a.client.GetUnreadCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to get unread count: %w", err)
	}
	unread, err := a.client.GetUnreadNotifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to get notifications: %w", err)
	}
	return a.print(map[string]any{
		"unreadCount":   count.Data,
		"notifications": unread.Data,
	})
}

func (a *app) printTimetable(ctx context.Context, opts *options) error {
	learner, err := a.learner(ctx)
	if err != nil {
		return err
	}

	resp, err := a.client.GetPrintableTimetable(ctx, vsware.PrintLayout{Width: opts.width, Height: opts.height}, learner.ID())
	if err != nil {
		return fmt.Errorf("failed to request printable timetable: %w", err)
	}
	if resp.Data.Error != nil {
		return fmt.Errorf("printable timetable rejected: %s: %s", resp.Data.Error.Status, resp.Data.Error.Message)
	}
	if resp.Data.Download == nil {
		return errors.New("printable timetable response has no download")
	}

	doc, err := a.client.PrintTimetable(ctx, resp.Data.Download.Payload.DownloadID)
	if err != nil {
		return fmt.Errorf("failed to fetch printable timetable: %w", err)
	}
	_, err = io.WriteString(a.out, doc.Data)
	return err
}

func (a *app) renew(ctx context.Context, _ *options) error {
	if err := a.client.RenewAccessToken(ctx); err != nil {
		return fmt.Errorf("failed to renew access token: %w", err)
	}
	return a.print(map[string]any{"renewed": true})
}
