// Command taskctl is a terminal client for the task list API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"github.com/yukikurage/task-list-api/internal/client"
	"github.com/yukikurage/task-list-api/internal/dto"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, client.ErrSessionExpired) || errors.Is(err, client.ErrNotLoggedIn) {
			fmt.Fprintln(os.Stderr, "run \"taskctl login\" first")
		}
		os.Exit(1)
	}
}

type app struct {
	client *client.Client
	stdin  *os.File
	in     *bufio.Reader
	out    io.Writer
}

func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) error {
	var serverURL, tokenFile string

	flagSet := pflag.NewFlagSet("taskctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&serverURL, "server", envOr("TASKCTL_SERVER", "http://localhost:8080"), "API server base URL")
	flagSet.StringVar(&tokenFile, "token-file", "", "where the session token is kept (default: user config dir)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(stderr, flagSet)
		return nil
	}

	if tokenFile == "" {
		path, err := client.DefaultTokenPath()
		if err != nil {
			return err
		}
		tokenFile = path
	}

	a := &app{
		client: client.New(serverURL, client.FileTokenStore{Path: tokenFile}),
		stdin:  stdin,
		in:     bufio.NewReader(stdin),
		out:    stdout,
	}

	command, rest := flagSet.Arg(0), flagSet.Args()[1:]
	switch command {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		if err := a.client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "list", "ls":
		return a.list(ctx, rest)
	case "add":
		return a.add(ctx, rest)
	case "edit":
		return a.edit(ctx, rest)
	case "done":
		return a.setCompleted(ctx, rest, true)
	case "undo":
		return a.setCompleted(ctx, rest, false)
	case "toggle":
		return a.toggle(ctx, rest)
	case "rm":
		return a.remove(ctx, rest)
	case "suggest":
		return a.suggest(ctx, rest)
	default:
		printHelp(stderr, flagSet)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) credentials(args []string) (string, string, error) {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Fprint(a.out, "Email: ")
		line, err := a.readLine()
		if err != nil {
			return "", "", err
		}
		email = line
	}

	password, err := a.password()
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// password reads without echo from a terminal, or one line from piped input.
func (a *app) password() (string, error) {
	fmt.Fprint(a.out, "Password: ")
	fd := int(a.stdin.Fd())
	if isTerminal(fd) {
		raw, err := readPassword(fd)
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return a.readLine()
}

func (a *app) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) register(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	if err := a.client.Register(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registered. Run \"taskctl login\" to sign in.")
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	if err := a.client.Login(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged in")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	user, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", user.Email, user.ID)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	var search, status string
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&search, "search", "s", "", "only tasks whose title contains this text")
	fs.StringVar(&status, "status", "", "completed or pending")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tasks, err := a.client.ListTasks(ctx, search, status)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, task := range tasks {
		mark := "[ ]"
		if task.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, task.ID, task.Title)
	}
	return tw.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: taskctl add <title>")
	}
	task, err := a.client.CreateTask(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s\n", task.ID)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: taskctl edit <id> <title>")
	}
	title := strings.Join(args[1:], " ")
	task, err := a.client.UpdateTask(ctx, args[0], dto.UpdateTaskRequest{Title: &title})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Renamed %s to %q\n", task.ID, task.Title)
	return nil
}

func (a *app) setCompleted(ctx context.Context, args []string, completed bool) error {
	if len(args) != 1 {
		return errors.New("usage: taskctl done|undo <id>")
	}
	task, err := a.client.UpdateTask(ctx, args[0], dto.UpdateTaskRequest{Completed: &completed})
	if err != nil {
		return err
	}
	printState(a.out, task)
	return nil
}

func (a *app) toggle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: taskctl toggle <id>")
	}
	tasks, err := a.client.ListTasks(ctx, "", "")
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if task.ID != args[0] {
			continue
		}
		updated, err := a.client.ToggleTask(ctx, task)
		if err != nil {
			return err
		}
		printState(a.out, updated)
		return nil
	}
	return fmt.Errorf("task %s not found", args[0])
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: taskctl rm <id>")
	}
	if err := a.client.DeleteTask(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %s\n", args[0])
	return nil
}

func (a *app) suggest(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: taskctl suggest <text>")
	}
	suggestions, err := a.client.SuggestTasks(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	for _, s := range suggestions {
		fmt.Fprintf(a.out, "- %s\n", s)
	}
	return nil
}

func printState(w io.Writer, task *dto.TaskDTO) {
	state := "pending"
	if task.Completed {
		state = "completed"
	}
	fmt.Fprintf(w, "%s is %s\n", task.ID, state)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `taskctl manages your personal task list.

Usage:
  taskctl [flags] <command> [args]

Commands:
  register [email]            create an account
  login [email]               sign in and remember the session
  logout                      forget the session
  whoami                      show the signed-in account
  list [--search s] [--status completed|pending]
  add <title>                 create a task
  edit <id> <title>           rename a task
  done <id>                   mark a task completed
  undo <id>                   mark a task pending
  toggle <id>                 flip a task's completion state
  rm <id>                     delete a task
  suggest <text>              propose task titles from free text

Flags:
%s`, flagSet.FlagUsages())
}
