package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go-interview-client/internal/credentials"
	"go-interview-client/internal/model"
	"go-interview-client/internal/session"
	"go-interview-client/internal/util"
	"go-interview-client/pkg/apierror"
)

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

func (c *cli) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func (c *cli) signup(ctx context.Context, args []string) error {
	fs := c.flags("signup")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	role := fs.String("role", "", "account role")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	var err error
	if *email, err = c.need(*email, "Email"); err != nil {
		return err
	}
	if *password, err = c.need(*password, "Password"); err != nil {
		return err
	}

	user, err := c.api.Register(ctx, model.RegisterRequest{
		Email:    *email,
		Password: *password,
		Name:     strings.TrimSpace(*name),
		Role:     strings.TrimSpace(*role),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Account created for %s. Run `interview login` to sign in.\n", user.Email)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := c.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	googleToken := fs.String("google-token", "", "Google ID token instead of email and password")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	if token := strings.TrimSpace(*googleToken); token != "" {
		if _, err := c.api.LoginWithGoogle(ctx, token); err != nil {
			return err
		}
	} else {
		var err error
		if *email, err = c.need(*email, "Email"); err != nil {
			return err
		}
		if *password, err = c.need(*password, "Password"); err != nil {
			return err
		}
		if _, err := c.api.Login(ctx, *email, *password); err != nil {
			return err
		}
	}

	user, err := c.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Signed in as %s.\n", user.Email)
	return nil
}

func (c *cli) logout(ctx context.Context, _ []string) error {
	if err := c.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out.")
	return nil
}

func (c *cli) status(_ context.Context, _ []string) error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "API\t%s\n", c.cfg.APIURL)
	fmt.Fprintf(tw, "Credential mode\t%s\n", c.api.Mode())
	fmt.Fprintf(tw, "Signed in\t%t\n", c.api.Authenticated())

	if c.api.Mode() == credentials.ModeToken {
		pair, err := c.api.Credentials()
		if err != nil {
			return err
		}
		if expiry, ok := credentials.Expiry(pair.AccessToken); ok {
			left := time.Until(expiry).Round(time.Second)
			if left > 0 {
				fmt.Fprintf(tw, "Access token\texpires %s (in %s)\n", expiry.Local().Format(time.RFC1123), left)
			} else {
				fmt.Fprintf(tw, "Access token\texpired %s, refreshed on next request\n", expiry.Local().Format(time.RFC1123))
			}
		}
		fmt.Fprintf(tw, "Refresh token\t%t\n", pair.RefreshToken != "")
		fmt.Fprintf(tw, "Credentials file\t%s\n", c.cfg.CredentialsFile)
	}

	return tw.Flush()
}

func (c *cli) profile(ctx context.Context, _ []string) error {
	user, err := c.api.Me(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", user.ID)
	fmt.Fprintf(tw, "Email\t%s\n", user.Email)
	if user.Name != "" {
		fmt.Fprintf(tw, "Name\t%s\n", user.Name)
	}
	if user.Role != "" {
		fmt.Fprintf(tw, "Role\t%s\n", user.Role)
	}
	return tw.Flush()
}

type startFlags struct {
	resume  *string
	jd      *string
	jdText  *string
	title   *string
	minutes *int
}

func (c *cli) startFlagSet(name string) (*flag.FlagSet, startFlags) {
	fs := c.flags(name)
	return fs, startFlags{
		resume:  fs.String("resume", "", "résumé file (PDF, DOCX or text)"),
		jd:      fs.String("jd", "", "job description text file"),
		jdText:  fs.String("jd-text", "", "job description text"),
		title:   fs.String("title", "", "job title"),
		minutes: fs.Int("minutes", c.cfg.DefaultTimerMinutes, "interview length in minutes"),
	}
}

func (s startFlags) requested() bool {
	return *s.resume != "" || *s.jd != "" || *s.jdText != ""
}

func (c *cli) dashboard(ctx context.Context, args []string) error {
	fs, opts := c.startFlagSet("dashboard")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if opts.requested() {
		return c.startInterview(ctx, opts)
	}

	user, err := c.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Welcome back, %s.\n", displayName(*user))

	last, err := c.api.LastHistory(ctx, user.ID)
	switch {
	case apierror.StatusOf(err) == http.StatusNotFound:
		fmt.Fprintln(c.out, "No interviews yet.")
	case err != nil:
		return err
	default:
		fmt.Fprintf(c.out, "Last interview #%d on %s: overall %d/10.\n", last.ID, formatDate(last.CreatedAt), last.OverallScore)
	}

	fmt.Fprintln(c.out, "Start a new one with `interview start -resume <file> -jd <file>`.")
	return nil
}

func (c *cli) start(ctx context.Context, args []string) error {
	fs, opts := c.startFlagSet("start")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	return c.startInterview(ctx, opts)
}

func (c *cli) startInterview(ctx context.Context, opts startFlags) error {
	resumePath, err := c.need(*opts.resume, "Résumé file")
	if err != nil {
		return err
	}
	jdText := strings.TrimSpace(*opts.jdText)
	if jdText == "" && *opts.jd != "" {
		raw, err := os.ReadFile(*opts.jd)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jdText = strings.TrimSpace(string(raw))
	}
	if jdText, err = c.need(jdText, "Job description"); err != nil {
		return err
	}
	if *opts.minutes <= 0 {
		return apierror.Validation(fmt.Errorf("%w: minutes must be positive", model.ErrInvalidInput))
	}

	content, err := os.ReadFile(resumePath)
	if err != nil {
		return fmt.Errorf("read résumé: %w", err)
	}
	fileName := filepath.Base(resumePath)

	user, err := c.api.Me(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Uploading résumé...")
	resume, err := c.api.UploadResume(ctx, fileName, util.DetectMIME(fileName, content), content)
	if err != nil {
		return err
	}

	jd, err := c.api.CreateJobDescription(ctx, model.JobDescriptionRequest{
		Title:  strings.TrimSpace(*opts.title),
		JDText: jdText,
		UserID: &user.ID,
	})
	if err != nil {
		return err
	}

	interview, err := c.api.StartInterview(ctx, model.StartInterviewRequest{
		ResumeID:         resume.ID,
		JobDescriptionID: jd.ID,
		UserID:           &user.ID,
		TimerMinutes:     *opts.minutes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Interview #%d started, %d minutes on the clock.\n", interview.ID, *opts.minutes)
	return c.runSession(ctx, interview.ID)
}

func (c *cli) session(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: interview session <id>")
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return c.runSession(ctx, id)
}

func (c *cli) history(ctx context.Context, args []string) error {
	if len(args) > 1 {
		fmt.Fprintln(c.out, "Usage: interview history [id]")
		return errUsage
	}

	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		detail, err := c.api.InterviewHistory(ctx, id)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Interview\t#%d\n", detail.ID)
		fmt.Fprintf(tw, "Date\t%s\n", formatDate(detail.CreatedAt))
		fmt.Fprintf(tw, "Technical\t%d/10\n", detail.TechnicalScore)
		fmt.Fprintf(tw, "Behavioral\t%d/10\n", detail.BehavioralScore)
		fmt.Fprintf(tw, "Coding\t%d/10\n", detail.CodingScore)
		fmt.Fprintf(tw, "Overall\t%d/10\n", detail.OverallScore)
		if err := tw.Flush(); err != nil {
			return err
		}
		if detail.Feedback != "" {
			fmt.Fprintf(c.out, "\n%s\n", detail.Feedback)
		}
		return nil
	}

	user, err := c.api.Me(ctx)
	if err != nil {
		return err
	}
	entries, err := c.api.UserHistory(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No interviews yet.")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTECHNICAL\tBEHAVIORAL\tCODING\tOVERALL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\n", e.ID, formatDate(e.CreatedAt), e.TechnicalScore, e.BehavioralScore, e.CodingScore, e.OverallScore)
	}
	return tw.Flush()
}

func (c *cli) feedback(ctx context.Context, args []string) error {
	fs := c.flags("feedback")
	email := fs.String("email", "", "contact email, defaults to the signed-in user")
	kind := fs.String("type", "general", "feedback type")
	text := fs.String("text", "", "feedback text")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	if strings.TrimSpace(*email) == "" {
		user, err := c.api.Me(ctx)
		if err != nil {
			return err
		}
		*email = user.Email
	}

	var err error
	if *text, err = c.need(*text, "Feedback"); err != nil {
		return err
	}

	req := model.FeedbackRequest{Email: *email, FeedbackType: strings.TrimSpace(*kind), FeedbackText: *text}
	if err := req.Validate(); err != nil {
		return apierror.Validation(err)
	}
	if _, err := c.api.SubmitFeedback(ctx, req); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Thanks for the feedback.")
	return nil
}

func (c *cli) runFile(ctx context.Context, args []string) error {
	fs := c.flags("run")
	language := fs.String("lang", c.cfg.CodeLanguage, "language: "+strings.Join(session.Languages, ", "))
	stdinPath := fs.String("stdin", "", "file passed to the program as standard input")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.out, "Usage: interview run [-lang name] [-stdin file] <file>")
		return errUsage
	}

	code, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	req := model.CodeRunRequest{
		Code:         string(code),
		LanguageCode: session.LanguageCode(session.NormalizeLanguage(*language)),
	}
	if *stdinPath != "" {
		input, err := os.ReadFile(*stdinPath)
		if err != nil {
			return fmt.Errorf("read stdin file: %w", err)
		}
		stdin := string(input)
		req.Stdin = &stdin
	}

	result, err := c.api.RunCode(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, strings.TrimRight(result.Summary(), "\n"))
	if !result.Success {
		return errors.New("program did not run successfully")
	}
	return nil
}

func (c *cli) help(_ context.Context, _ []string) error {
	c.usage()
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.Validation(fmt.Errorf("%w: %q is not an interview id", model.ErrInvalidInput, raw))
	}
	return id, nil
}

func displayName(u model.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func formatDate(ts model.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}
