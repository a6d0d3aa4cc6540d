package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"assembly-directory.backend/internal/config"
	"assembly-directory.backend/pkg/apiclient"
	"assembly-directory.backend/pkg/authstate"
	"assembly-directory.backend/pkg/catalog"
	"assembly-directory.backend/pkg/logger"
)

const usage = `Usage: assembly [-v] <command> [flags]

Commands:
  list     list members (--session-name, --session-date, --search, --category)
  show     show one member: show <id>
  browse   search interactively; each line updates the search text
  login    sign in as admin (--email, --password)
  logout   forget the stored admin token
  add      create a member (admin)
  edit     update a member (admin): edit <id> [flags]
  delete   delete a member (admin): delete <id> [--yes]
`

var errUsage = errors.New("invalid usage")

type assemblyDeps struct {
	loadEnv    func() error
	loadCfg    func() *config.ClientConfig
	tokenStore func(cfg *config.ClientConfig) authstate.TokenStore
	openFile   func(name string) (io.ReadCloser, error)
	debounce   time.Duration
	logos      map[string]string
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
}

func defaultAssemblyDeps() assemblyDeps {
	return assemblyDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.LoadClient,
		tokenStore: func(cfg *config.ClientConfig) authstate.TokenStore {
			return authstate.NewFileStore(cfg.TokenFile)
		},
		openFile: func(name string) (io.ReadCloser, error) { return os.Open(name) },
		debounce: catalog.DefaultDebounce,
		in:       os.Stdin,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

// app is the state shared by every command of one invocation
type app struct {
	client *apiclient.Client
	auth   *authstate.State
	logos  *catalog.PartyLogos
	deps   assemblyDeps
	input  *bufio.Reader
	out    *syncWriter
}

// syncWriter serializes writes from the debounce goroutine and the command loop
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func runAssembly(args []string, deps assemblyDeps) error {
	def := defaultAssemblyDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.tokenStore == nil {
		deps.tokenStore = def.tokenStore
	}
	if deps.openFile == nil {
		deps.openFile = def.openFile
	}
	if deps.debounce <= 0 {
		deps.debounce = def.debounce
	}
	if deps.in == nil {
		deps.in = def.in
	}
	if deps.out == nil {
		deps.out = def.out
	}
	if deps.errOut == nil {
		deps.errOut = def.errOut
	}

	global := flag.NewFlagSet("assembly", flag.ContinueOnError)
	global.SetOutput(deps.errOut)
	global.Usage = func() { _, _ = fmt.Fprint(deps.errOut, usage) }
	verbose := global.Bool("v", false, "log requests and failures to stderr")
	if err := global.Parse(args); err != nil {
		return errUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}
	if *verbose {
		logger.Init("development")
		defer logger.Sync()
	}

	_ = deps.loadEnv()
	cfg := deps.loadCfg()

	auth := authstate.New(deps.tokenStore(cfg))
	if err := auth.Init(); err != nil {
		logger.Warn(context.Background(), "Failed to restore admin token", zap.Error(err))
	}

	client, err := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithTokenSource(auth),
	)
	if err != nil {
		return alert(deps.errOut, err)
	}

	a := &app{
		client: client,
		auth:   auth,
		logos:  catalog.NewPartyLogos(deps.logos),
		deps:   deps,
		input:  bufio.NewReader(deps.in),
		out:    &syncWriter{w: deps.out},
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	ctx := context.Background()
	switch cmd {
	case "list":
		err = a.list(ctx, rest)
	case "show":
		err = a.show(ctx, rest)
	case "browse":
		err = a.browse(ctx, rest)
	case "login":
		err = a.login(ctx, rest)
	case "logout":
		err = a.logout()
	case "add":
		err = a.add(ctx, rest)
	case "edit":
		err = a.edit(ctx, rest)
	case "delete":
		err = a.remove(ctx, rest)
	default:
		_, _ = fmt.Fprintf(deps.errOut, "unknown command %q\n\n", cmd)
		global.Usage()
		return errUsage
	}
	if err != nil && !errors.Is(err, errUsage) {
		logger.Debug(ctx, "Command failed", zap.String("command", cmd), zap.Error(err))
		return alert(deps.errOut, err)
	}
	return err
}

// alert prints err the way every screen reports failures and returns it
func alert(w io.Writer, err error) error {
	msg := err.Error()
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		msg = apiclient.Message(err)
	}
	_, _ = fmt.Fprintf(w, "Error: %s\n", msg)
	return err
}

// readLine returns the next trimmed input line and false at end of input
func (a *app) readLine() (string, bool) {
	line, err := a.input.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (a *app) prompt(label string) string {
	_, _ = fmt.Fprint(a.out, label)
	line, _ := a.readLine()
	return strings.TrimSpace(line)
}

func main() {
	if err := runAssembly(os.Args[1:], defaultAssemblyDeps()); err != nil {
		os.Exit(1)
	}
}
