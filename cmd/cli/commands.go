package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/and161185/motd/internal/config"
	pkgcrypto "github.com/and161185/motd/internal/crypto"
	"github.com/and161185/motd/internal/model"
	"github.com/and161185/motd/internal/storage"
)

type messageJSON struct {
	ID        int64  `json:"id"`
	Motd      string `json:"motd"`
	Creator   string `json:"creator"`
	CreatedAt string `json:"created_at"`
}

func toJSON(m model.Message) messageJSON {
	return messageJSON{ID: m.ID, Motd: m.Text, Creator: m.Creator, CreatedAt: tsString(m.CreatedAt)}
}

func tsString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// resolveCode returns code as given, or derives it from secret at now.
func resolveCode(secret, code string, now time.Time) (string, error) {
	switch {
	case code != "" && secret != "":
		return "", errors.New("use either -secret or -code, not both")
	case code != "":
		return code, nil
	case secret != "":
		return pkgcrypto.NewTOTP().CurrentCode(secret, now)
	}
	return "", errors.New("need -secret or -code")
}

func printMessage(w io.Writer, m model.Message, ok, asJSON bool) {
	if asJSON {
		if !ok {
			printJSON(w, map[string]bool{"empty": true})
			return
		}
		printJSON(w, toJSON(m))
		return
	}
	if !ok {
		fmt.Fprintln(w, "no message of the day yet")
		return
	}
	fmt.Fprintf(w, "%s\n  -- %s, %s\n", m.Text, m.Creator, tsString(m.CreatedAt))
}

func printTable(w io.Writer, msgs []model.Message) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Creator", "Created At", "Motd"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	for _, m := range msgs {
		table.Append([]string{strconv.FormatInt(m.ID, 10), m.Creator, tsString(m.CreatedAt), m.Text})
	}
	table.Render()
}

func cmdRead(ctx context.Context, args []string, o dialOpts, out io.Writer) error {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cc, cli, err := dial(ctx, o)
	if err != nil {
		return err
	}
	defer cc.Close()

	m, ok, err := cli.Read(ctx)
	if err != nil {
		return err
	}
	printMessage(out, m, ok, *asJSON)
	return nil
}

func cmdWrite(ctx context.Context, args []string, o dialOpts, out io.Writer) error {
	fs := flag.NewFlagSet("write", flag.ContinueOnError)
	user := fs.String("u", "", "userid")
	secret := fs.String("secret", "", "shared secret (derives the code locally)")
	code := fs.String("code", "", "one-time code")
	text := fs.String("text", "", "message text")
	file := fs.String("file", "", "read message text from file or - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("need -u")
	}
	if *file != "" {
		b, err := readAll(*file)
		if err != nil {
			return err
		}
		*text = strings.TrimRight(string(b), "\n")
	}

	c, err := resolveCode(*secret, *code, time.Now())
	if err != nil {
		return err
	}

	cc, cli, err := dial(ctx, o)
	if err != nil {
		return err
	}
	defer cc.Close()

	m, err := cli.Write(ctx, *user, c, *text)
	if err != nil {
		return err
	}
	printJSON(out, toJSON(m))
	return nil
}

func cmdCode(args []string, now time.Time, out io.Writer) error {
	fs := flag.NewFlagSet("code", flag.ContinueOnError)
	secret := fs.String("secret", "", "shared secret")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *secret == "" {
		return errors.New("need -secret")
	}
	c, err := pkgcrypto.NewTOTP().CurrentCode(*secret, now)
	if err != nil {
		return err
	}
	left := int64(pkgcrypto.Period) - now.Unix()%int64(pkgcrypto.Period)
	fmt.Fprintf(out, "%s (valid for %ds)\n", c, left)
	return nil
}

func cmdDump(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	store := fs.String("store", config.StoreSQLite, "sqlite, postgres or badger")
	dsn := fs.String("dsn", "motd.db", "store location")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := &config.Config{Store: *store, DSN: *dsn}

	repo, err := storage.Open(ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer repo.Close()

	msgs, err := repo.ScanAll(ctx)
	if err != nil {
		return err
	}
	printTable(out, msgs)
	return nil
}
