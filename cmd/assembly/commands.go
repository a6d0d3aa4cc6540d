package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/volatiletech/null/v8"

	"assembly-directory.backend/pkg/apiclient"
	"assembly-directory.backend/pkg/catalog"
)

var errNotLoggedIn = errors.New("please log in as admin first")

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.deps.errOut)
	return fs
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := a.newFlagSet("list")
	sessionName := fs.String("session-name", "", "exact session name")
	sessionDate := fs.String("session-date", "", "session day, YYYY-MM-DD")
	search := fs.String("search", "", "case-insensitive search text")
	category := fs.String("category", "", "search only one field: name, partyName, constituency, sessionName, sessionDate")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	cat, err := catalog.ParseCategory(*category)
	if err != nil {
		return err
	}

	members, err := a.client.ListMembers(ctx, apiclient.MemberFilter{})
	if err != nil {
		return err
	}
	visible := catalog.Apply(members, catalog.Criteria{
		SessionName: *sessionName,
		SessionDate: *sessionDate,
		SearchText:  *search,
		Category:    cat,
	})
	writeMemberTable(a.out, visible)
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	id, rest := splitID(args)
	if id == "" || len(rest) > 0 {
		_, _ = fmt.Fprintln(a.deps.errOut, "usage: assembly show <id>")
		return errUsage
	}
	m, err := a.client.GetMember(ctx, id)
	if err != nil {
		return err
	}
	writeMemberDetail(a.out, m, a.client.ResolveAssetURL(m.ImageURL), a.client.ResolveAssetURL(a.logos.Resolve(*m)))
	return nil
}

func (a *app) browse(ctx context.Context, args []string) error {
	fs := a.newFlagSet("browse")
	category := fs.String("category", "", "initial search field")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	cat, err := catalog.ParseCategory(*category)
	if err != nil {
		return err
	}

	members, err := a.client.ListMembers(ctx, apiclient.MemberFilter{})
	if err != nil {
		return err
	}
	opts, err := a.client.FilterOptions(ctx)
	if err != nil {
		return err
	}

	view := catalog.NewView(a.deps.debounce)
	defer view.Close()
	view.SetCategory(cat)
	view.SetMembers(members)
	writeMemberTable(a.out, view.Visible())
	view.OnChange(func(ms []apiclient.Member) { writeMemberTable(a.out, ms) })

	_, _ = fmt.Fprintf(a.out, "Sessions: %s\nDates: %s\n", strings.Join(opts.SessionNames, ", "), strings.Join(opts.SessionDates, ", "))
	_, _ = fmt.Fprintln(a.out, "Type to search. Commands: :session <name>, :date <day>, :category <field>, :clear, :quit")

	for {
		line, ok := a.readLine()
		if !ok {
			break
		}
		cmd, arg := splitCommand(line)
		switch cmd {
		case "":
			view.SetSearchText(line)
		case ":session":
			view.SetSessionName(arg)
		case ":date":
			view.SetSessionDate(arg)
		case ":category":
			c, err := catalog.ParseCategory(arg)
			if err != nil {
				_ = alert(a.out, err)
				continue
			}
			view.SetCategory(c)
		case ":clear":
			view.ClearFilters()
		case ":quit":
			view.Flush()
			return nil
		default:
			_ = alert(a.out, fmt.Errorf("unknown command %s", cmd))
		}
	}
	view.Flush()
	return nil
}

func splitCommand(line string) (string, string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		return "", ""
	}
	cmd, arg, _ := strings.Cut(trimmed, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.newFlagSet("login")
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *email == "" {
		*email = a.prompt("Email: ")
	}
	if *password == "" {
		*password = a.prompt("Password: ")
	}

	resp, err := a.client.Login(ctx, strings.TrimSpace(*email), *password)
	if err != nil {
		return err
	}
	if err := a.auth.Login(resp.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	_, _ = fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *app) logout() error {
	if err := a.auth.Logout(); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	_, _ = fmt.Fprintln(a.out, "Logged out")
	return nil
}

// memberFlags binds one flag per member field plus the two attachment paths
type memberFlags struct {
	fs        *flag.FlagSet
	values    map[string]*string
	image     *string
	partyLogo *string
}

var memberFlagNames = []struct{ flag, usage string }{
	{"name", "member name"},
	{"constituency", "constituency"},
	{"session-name", "session name"},
	{"session-date", "session day, YYYY-MM-DD"},
	{"speech", "speech given"},
	{"time-taken", "minutes taken"},
	{"party-name", "party name"},
	{"image-url", "image URL"},
	{"party-logo-url", "party logo URL"},
}

func (a *app) newMemberFlags(name string) *memberFlags {
	mf := &memberFlags{fs: a.newFlagSet(name), values: map[string]*string{}}
	for _, f := range memberFlagNames {
		mf.values[f.flag] = mf.fs.String(f.flag, "", f.usage)
	}
	mf.image = mf.fs.String("image", "", "path of a member photo to upload")
	mf.partyLogo = mf.fs.String("party-logo", "", "path of a party logo to upload")
	return mf
}

// input returns only the fields given on the command line
func (mf *memberFlags) input() apiclient.MemberInput {
	set := map[string]bool{}
	mf.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	field := func(name string) null.String {
		if !set[name] {
			return null.String{}
		}
		return null.StringFrom(*mf.values[name])
	}
	return apiclient.MemberInput{
		Name:         field("name"),
		Constituency: field("constituency"),
		SessionName:  field("session-name"),
		SessionDate:  field("session-date"),
		SpeechGiven:  field("speech"),
		TimeTaken:    field("time-taken"),
		PartyName:    field("party-name"),
		ImageURL:     field("image-url"),
		PartyLogoURL: field("party-logo-url"),
	}
}

// attachments opens the files named by --image and --party-logo
func (a *app) attachments(mf *memberFlags) (apiclient.Attachments, func(), error) {
	var files apiclient.Attachments
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	open := func(path string) (*apiclient.File, error) {
		if path == "" {
			return nil, nil
		}
		rc, err := a.deps.openFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		closers = append(closers, rc)
		return &apiclient.File{Name: filepath.Base(path), Reader: rc}, nil
	}

	var err error
	if files.Image, err = open(*mf.image); err != nil {
		closeAll()
		return files, nil, err
	}
	if files.PartyLogo, err = open(*mf.partyLogo); err != nil {
		closeAll()
		return files, nil, err
	}
	return files, closeAll, nil
}

func (a *app) add(ctx context.Context, args []string) error {
	if !a.auth.IsAuthenticated() {
		return errNotLoggedIn
	}
	mf := a.newMemberFlags("add")
	if err := mf.fs.Parse(args); err != nil {
		return errUsage
	}
	files, closeFiles, err := a.attachments(mf)
	if err != nil {
		return err
	}
	defer closeFiles()

	m, err := a.client.CreateMember(ctx, mf.input(), files)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Member added successfully (id=%s)\n", m.ID)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	if !a.auth.IsAuthenticated() {
		return errNotLoggedIn
	}
	id, rest := splitID(args)
	if id == "" {
		_, _ = fmt.Fprintln(a.deps.errOut, "usage: assembly edit <id> [flags]")
		return errUsage
	}
	mf := a.newMemberFlags("edit")
	if err := mf.fs.Parse(rest); err != nil {
		return errUsage
	}
	files, closeFiles, err := a.attachments(mf)
	if err != nil {
		return err
	}
	defer closeFiles()

	m, err := a.client.UpdateMember(ctx, id, mf.input(), files)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Member updated successfully (id=%s)\n", m.ID)
	return nil
}

// remove asks for confirmation, deletes, then reports the outcome
func (a *app) remove(ctx context.Context, args []string) error {
	if !a.auth.IsAuthenticated() {
		return errNotLoggedIn
	}
	id, rest := splitID(args)
	fs := a.newFlagSet("delete")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(rest); err != nil || id == "" {
		_, _ = fmt.Fprintln(a.deps.errOut, "usage: assembly delete <id> [--yes]")
		return errUsage
	}

	if !*yes {
		answer := a.prompt(fmt.Sprintf("Are you sure you want to delete member %s? [y/N] ", id))
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			_, _ = fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
	}

	msg, err := a.client.DeleteMember(ctx, id)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Member deleted successfully"
	}
	_, _ = fmt.Fprintln(a.out, msg)
	return nil
}

// splitID takes a leading positional id so flags may follow it
func splitID(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return strings.TrimSpace(args[0]), args[1:]
}
