package main

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/evaluation"
	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/session"
	logsvc "github.com/smartgrade/smartgrade/services/logger"
	"github.com/smartgrade/smartgrade/tests"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	mgr, rec := testutil.NewSession(t)
	out := new(bytes.Buffer)
	ev := evaluation.NewMockEvaluator(evaluation.MockConfig{Sleep: core.NoSleep, Rand: rand.New(rand.NewSource(1))})
	return &commandLine{
		mgr:     mgr,
		grading: evaluation.NewService(ev, logsvc.NewNopLogger()),
		catalog: evaluation.MustDefaultCatalog(),
		notices: rec,
		out:     out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest, before func(tt cliTest)) {
	for _, tt := range tests {
		args := append([]string{"smartgrade"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if before != nil {
				before(tt)
			}
			if err := cli.run(context.Background(), args); err != nil {
				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, want an error")
			}
		})
	}
}

func Test_commandLine_login(t *testing.T) {
	cli, out := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no email", args: []string{"login"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"login", "--lol"}, wantErrStr: "unknown flag: --lol"},
		{
			name:    "wrong password",
			args:    []string{"login", "--email", identity.DemoTeacherEmail},
			wantErr: identity.ErrInvalidCredentials,
			extra:   extra{pwd: "lol"},
		},
		{
			name:  "success",
			args:  []string{"login", "--email", identity.DemoTeacherEmail},
			extra: extra{pwd: identity.DemoPassword},
		},
	}
	runCLITests(t, cli, tests, func(tt cliTest) {
		pwd := ""
		if ex, ok := tt.extra.(extra); ok {
			pwd = ex.pwd
		}
		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(pwd), nil
		}
	})

	ident, ok := cli.mgr.Current()
	if !ok || ident.Email != identity.DemoTeacherEmail {
		t.Fatalf("Current() = %v, %v; want the teacher", ident, ok)
	}
	got := out.String()
	for _, want := range []string{
		"[error] Invalid credentials",
		"John Smith <teacher@example.com> (teacher, id 1)",
		"[success] Welcome back, teacher!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func Test_commandLine_passwordError(t *testing.T) {
	cli, _ := setup(t)

	readErr := errors.New("no tty")
	readPasswordFunc = func(fd int) ([]byte, error) {
		return nil, readErr
	}
	tests := []cliTest{
		{name: "login", args: []string{"login", "-e", identity.DemoStudentEmail}, wantErr: readErr},
		{name: "register", args: []string{"register", "-n", "Awe", "-e", "awe@test.cd", "-r", "student"}, wantErr: readErr},
	}
	runCLITests(t, cli, tests, nil)

	if cli.mgr.IsAuthenticated() {
		t.Error("IsAuthenticated() = true, want false")
	}
}

func Test_commandLine_register(t *testing.T) {
	cli, out := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte("pwd"), nil
	}
	tests := []cliTest{
		{name: "no args", args: []string{"register"}, wantErr: errHelp},
		{name: "invalid role", args: []string{"register", "--name", "Awe", "--email", "awe@test.cd", "--role", "admin"}, wantErr: errHelp},
		{name: "success", args: []string{"register", "--name", "Awe", "--email", "awe@test.cd", "--role", "student"}},
	}
	runCLITests(t, cli, tests, nil)

	ident, ok := cli.mgr.Current()
	if !ok {
		t.Fatal("Current() returned no identity")
	}
	if ident.Name != "Awe" || ident.Email != "awe@test.cd" || ident.Role != identity.RoleStudent || ident.ID == "" {
		t.Errorf("Current() = %+v", ident)
	}
	if !strings.Contains(out.String(), "[success] Registration successful!") {
		t.Errorf("output missing the registration notice:\n%s", out.String())
	}
}

func Test_commandLine_whoamiLogout(t *testing.T) {
	cli, out := setup(t)

	if err := cli.run(context.Background(), []string{"smartgrade", "whoami"}); err != nil {
		t.Fatalf("whoami: unexpected error = %v", err)
	}
	if got := out.String(); got != "not logged in\n" {
		t.Errorf("whoami output = %q", got)
	}

	testutil.Login(t, cli.mgr, identity.DemoStudentEmail)
	cli.notices.Drain()
	out.Reset()

	if err := cli.run(context.Background(), []string{"smartgrade", "whoami"}); err != nil {
		t.Fatalf("whoami: unexpected error = %v", err)
	}
	if got, want := out.String(), "Jane Doe <student@example.com> (student, id 2)\n"; got != want {
		t.Errorf("whoami output = %q, want %q", got, want)
	}

	out.Reset()
	if err := cli.run(context.Background(), []string{"smartgrade", "logout"}); err != nil {
		t.Fatalf("logout: unexpected error = %v", err)
	}
	if got, want := out.String(), "[info] Logged out successfully\n"; got != want {
		t.Errorf("logout output = %q, want %q", got, want)
	}
	if cli.mgr.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
}

func Test_commandLine_grade(t *testing.T) {
	cli, out := setup(t)

	essay := strings.Repeat("Photosynthesis turns light into chemical energy. ", 5)
	files := map[string]string{
		"essay.txt": essay,
		"short.txt": "Too short.",
	}
	readFileFunc = func(name string) ([]byte, error) {
		data, ok := files[name]
		if !ok {
			return nil, errors.New("open " + name + ": no such file or directory")
		}
		return []byte(data), nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no file", args: []string{"grade"}, wantErr: errHelp},
		{name: "not logged in", args: []string{"grade", "--file", "essay.txt"}, wantErr: session.ErrUnauthenticated},
	}, nil)

	testutil.Login(t, cli.mgr, identity.DemoStudentEmail)

	runCLITests(t, cli, []cliTest{
		{name: "missing file", args: []string{"grade", "-f", "lol.txt"}, wantErrStr: "open lol.txt: no such file or directory"},
		{name: "too short", args: []string{"grade", "-f", "short.txt"}, wantErr: evaluation.ErrEssayTooShort},
		{name: "invalid level", args: []string{"grade", "-f", "essay.txt", "--level", "lol"}, wantErr: evaluation.ErrInvalidGradeLevel},
		{name: "success", args: []string{"grade", "-f", "essay.txt", "--title", "Energy", "--level", "high"}},
	}, nil)

	got := out.String()
	for _, want := range []string{"Score: ", "Strengths:", "Areas for improvement:", "Grammar & style:"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func Test_parseAnswers(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		want       map[int]string
		wantErrStr string
	}{
		{name: "empty", in: "", want: map[int]string{}},
		{name: "pairs", in: "1=3.14, 2=21,3=11", want: map[int]string{1: "3.14", 2: "21", 3: "11"}},
		{name: "option with equal sign", in: "1=a=b", want: map[int]string{1: "a=b"}},
		{name: "no equal sign", in: "1", wantErrStr: `answer "1" must be of form ID=OPTION`},
		{name: "non-int id", in: "x=1", wantErrStr: `question id must be a number (got "x")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnswers(tt.in)
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Fatalf("parseAnswers() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnswers() unexpected error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseAnswers() = %v, want %v", got, tt.want)
			}
			for id, ans := range tt.want {
				if got[id] != ans {
					t.Errorf("parseAnswers()[%d] = %q, want %q", id, got[id], ans)
				}
			}
		})
	}
}

func Test_commandLine_quiz(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no set", args: []string{"quiz"}, wantErr: errHelp},
		{name: "not logged in", args: []string{"quiz", "--set", "math-101", "--answers", "1=3.14"}, wantErr: session.ErrUnauthenticated},
	}, nil)

	testutil.Login(t, cli.mgr, identity.DemoStudentEmail)

	runCLITests(t, cli, []cliTest{
		{name: "unknown set", args: []string{"quiz", "-s", "lol"}, wantErr: evaluation.ErrUnknownQuiz},
		{name: "unknown question", args: []string{"quiz", "-s", "math-101", "-a", "9=3.14"}, wantErr: evaluation.ErrUnknownQuestion},
		{name: "unknown option", args: []string{"quiz", "-s", "math-101", "-a", "1=4"}, wantErr: evaluation.ErrUnknownOption},
		{name: "incomplete", args: []string{"quiz", "-s", "math-101", "-a", "1=3.14"}, wantErr: evaluation.ErrIncompleteSubmission},
	}, nil)

	out.Reset()
	runCLITests(t, cli, []cliTest{
		{name: "success", args: []string{"quiz", "-s", "math-101", "-a", "1=3.14,2=21,3=11", "--explain"}},
	}, nil)

	got := out.String()
	for _, want := range []string{
		": 100% (3/3)",
		"Answer: 3.14",
		"[success] Quiz submitted! Your score: 100%",
		"[success] AI explanations loaded",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
