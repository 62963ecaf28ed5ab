package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/smartgrade/smartgrade/core/evaluation"
	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/session"
	"github.com/smartgrade/smartgrade/services/notify"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	readFileFunc     = ioutil.ReadFile   // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	mgr     *session.Manager
	grading *evaluation.Service
	catalog *evaluation.Catalog
	notices *notify.Recorder
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login --email EMAIL                                - log in (the password is prompted next)")
	fmt.Fprintln(cli.out, "  register --name NAME --email EMAIL --role ROLE    - create an account and log in (role: teacher|student)")
	fmt.Fprintln(cli.out, "  logout                                             - end the session")
	fmt.Fprintln(cli.out, "  whoami                                             - show the active account")
	fmt.Fprintln(cli.out, "  grade --file FILE [--title T --prompt P --level L] - grade an essay (level: middle|high|college|graduate)")
	fmt.Fprintln(cli.out, "  quiz --set KEY --answers 1=A,2=B,... [--explain]   - submit a quiz")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	defer cli.printNotices()

	switch args[1] {
	case "login":
		return cli.login(ctx, args[2:])
	case "register":
		return cli.register(ctx, args[2:])
	case "logout":
		return cli.mgr.Logout(ctx)
	case "whoami":
		return cli.whoami()
	case "grade":
		return cli.grade(ctx, args[2:])
	case "quiz":
		return cli.quiz(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) printNotices() {
	for _, n := range cli.notices.Drain() {
		fmt.Fprintf(cli.out, "[%s] %s\n", n.Level, n.Message)
	}
}

func (cli *commandLine) newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) readPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("login")
	email := fs.StringP("email", "e", "", "The account's email. The password will be prompted next.")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return errHelp
	}

	pwd, err := cli.readPassword()
	if err != nil {
		return err
	}
	ident, err := cli.mgr.Login(ctx, *email, pwd)
	if err != nil {
		return err
	}
	cli.printIdentity(ident)
	return nil
}

func (cli *commandLine) register(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("register")
	name := fs.StringP("name", "n", "", "Full name")
	email := fs.StringP("email", "e", "", "Email")
	role := fs.StringP("role", "r", "", "teacher or student")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if !identity.Role(*role).Valid() {
		fs.Usage()
		return errHelp
	}

	pwd, err := cli.readPassword()
	if err != nil {
		return err
	}
	ident, err := cli.mgr.Register(ctx, identity.NewIdentity{
		Name:     *name,
		Email:    *email,
		Password: pwd,
		Role:     identity.Role(*role),
	})
	if err != nil {
		return err
	}
	cli.printIdentity(ident)
	return nil
}

func (cli *commandLine) whoami() error {
	ident, ok := cli.mgr.Current()
	if !ok {
		fmt.Fprintln(cli.out, "not logged in")
		return nil
	}
	cli.printIdentity(ident)
	return nil
}

func (cli *commandLine) printIdentity(ident identity.Identity) {
	fmt.Fprintf(cli.out, "%s <%s> (%s, id %s)\n", ident.Name, ident.Email, ident.Role, ident.ID)
}

func (cli *commandLine) grade(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("grade")
	file := fs.StringP("file", "f", "", "Path to the essay text")
	title := fs.StringP("title", "t", "", "Essay title")
	prompt := fs.StringP("prompt", "p", "", "Assignment prompt")
	level := fs.StringP("level", "l", string(evaluation.DefaultGradeLevel), "Grade level")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if *file == "" {
		fs.Usage()
		return errHelp
	}
	if _, err := cli.mgr.Authorize(); err != nil {
		return err
	}

	text, err := readFileFunc(*file)
	if err != nil {
		return err
	}
	res, err := cli.grading.GradeEssay(ctx, evaluation.EssayRequest{
		Text:       string(text),
		Prompt:     *prompt,
		GradeLevel: evaluation.GradeLevel(*level),
		Title:      *title,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "Score: %d/100\n\n%s\n\nStrengths:\n", res.Score, res.OverallFeedback)
	for _, s := range res.Strengths {
		fmt.Fprintf(cli.out, "  - %s\n", s)
	}
	fmt.Fprintln(cli.out, "Areas for improvement:")
	for _, s := range res.Improvements {
		fmt.Fprintf(cli.out, "  - %s\n", s)
	}
	fmt.Fprintln(cli.out, "Grammar & style:")
	for _, g := range res.GrammarFeedback {
		fmt.Fprintf(cli.out, "  - %s: %s\n", g.Issue, g.Suggestion)
	}
	return nil
}

// parseAnswers reads "1=3.14,2=21" into {1: "3.14", 2: "21"}.
func parseAnswers(s string) (map[int]string, error) {
	answers := make(map[int]string)
	for _, pair := range strings.Split(s, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("answer %q must be of form ID=OPTION", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil {
			return nil, fmt.Errorf("question id must be a number (got %q)", kv[0])
		}
		answers[id] = strings.TrimSpace(kv[1])
	}
	return answers, nil
}

func (cli *commandLine) quiz(args []string) error {
	fs := cli.newFlagSet("quiz")
	key := fs.StringP("set", "s", "", "Quiz key (math-101, science-101, history-101)")
	rawAnswers := fs.StringP("answers", "a", "", "Comma separated ID=OPTION pairs")
	explain := fs.BoolP("explain", "x", false, "Show the explanations after submitting")
	if err := cli.parse(fs, args); err != nil {
		return err
	}
	if *key == "" {
		fs.Usage()
		return errHelp
	}
	if _, err := cli.mgr.Authorize(); err != nil {
		return err
	}

	attempt, err := cli.catalog.NewAttempt(*key, cli.notices)
	if err != nil {
		return err
	}
	answers, err := parseAnswers(*rawAnswers)
	if err != nil {
		return err
	}
	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if err = attempt.Answer(id, answers[id]); err != nil {
			return fmt.Errorf("question %d: %w", id, err)
		}
	}

	res, err := attempt.Submit()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s: %d%% (%d/%d)\n", attempt.Quiz().Title, res.Score, res.Correct, res.Total)
	for _, q := range res.Questions {
		mark := "✗"
		if q.Correct {
			mark = "✓"
		}
		fmt.Fprintf(cli.out, "  %s %d. %s\n", mark, q.QuestionID, q.Answer)
	}

	if *explain {
		exps, err := attempt.Explanations()
		if err != nil {
			return err
		}
		for _, e := range exps {
			fmt.Fprintf(cli.out, "\n%d. %s\n   Answer: %s\n   %s\n", e.QuestionID, e.Question, e.CorrectAnswer, e.Explanation)
		}
	}
	return nil
}
