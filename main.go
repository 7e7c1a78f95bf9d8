package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonform/internal/config"
	"github.com/mcncl/jsonform/internal/editor"
	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/models"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Config    string           `help:"Path to config file. Defaults to .jsonform.yml in this or a parent directory." short:"c" type:"path"`
	Debug     bool             `help:"Enable debug logging." short:"d"`
	Yes       bool             `help:"Save without asking for confirmation." short:"y"`
	Comments  bool             `help:"Accept JSON with comments and trailing commas."`
	Indent    int              `help:"Indentation width for saved files (-1 uses the config value)." default:"-1"`
	NoAtomic  bool             `help:"Write valid fields even if another field fails to convert."`
	Humanize  bool             `help:"Show field labels as words instead of raw keys."`
	NoSession bool             `help:"Do not read or record the last opened file."`
	Version   kong.VersionFlag `help:"Show version information." short:"v"`

	Show           ShowCmd           `cmd:"" help:"Show one object as a form."`
	Set            SetCmd            `cmd:"" help:"Set fields of one object and save."`
	AddObject      AddObjectCmd      `cmd:"" help:"Append an object with one property and save."`
	Duplicate      DuplicateCmd      `cmd:"" help:"Append a copy of the last object and save."`
	AddProperty    AddPropertyCmd    `cmd:"" help:"Add a property to one object and save."`
	DeleteProperty DeletePropertyCmd `cmd:"" help:"Remove a field or section from one object and save."`
	DeleteObject   DeleteObjectCmd   `cmd:"" help:"Remove one object and save."`
	Preview        PreviewCmd        `cmd:"" help:"Print one object as JSON."`
	Replace        ReplaceCmd        `cmd:"" help:"Replace one object with edited JSON and save."`
	Table          TableCmd          `cmd:"" help:"Print every object as a table row, optionally setting cells first."`
	Validate       ValidateCmd       `cmd:"" help:"Check that a file is a non-empty array of objects."`
}

// Context holds the runtime context shared by all commands
type Context struct {
	Debug   bool
	Yes     bool
	Config  *config.Config
	Session *editor.Session

	In  *bufio.Reader
	Out io.Writer
}

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonform --help\n")
		os.Exit(1)
	}
}

// run parses args and executes the selected command.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("jsonform"),
		kong.Description("Edit an array of JSON objects one object at a time"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": "jsonform version " + Version},
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return errors.NewValidationError("invalid arguments", err)
	}

	ctx, err := newContext(&cli, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	return kctx.Run(ctx)
}

// newContext resolves configuration and opens an editing session.
func newContext(cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	configPath := cli.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadWithCLI(configPath, cli.overrides())
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	var logger *log.Logger
	if cfg.Dev.Debug {
		logger = log.New(stderr, "jsonform: ", log.LstdFlags)
		if configPath != "" {
			logger.Printf("using config file %s", configPath)
		}
	}

	return &Context{
		Debug:   cfg.Dev.Debug,
		Yes:     cli.Yes,
		Config:  cfg,
		Session: editor.NewSession(cfg, logger),
		In:      bufio.NewReader(stdin),
		Out:     stdout,
	}, nil
}

func (c *CLI) overrides() config.CLIOverrides {
	var o config.CLIOverrides
	if c.Comments {
		o.AllowComments = &c.Comments
	}
	if c.Indent >= 0 {
		o.Indent = &c.Indent
	}
	if c.NoAtomic {
		atomic := false
		o.Atomic = &atomic
	}
	if c.Humanize {
		o.Humanize = &c.Humanize
	}
	o.NoSession = c.NoSession
	o.Debug = c.Debug
	return o
}

// confirm asks a yes/no question on the context's streams. The --yes flag
// answers it without asking.
func (ctx *Context) confirm(question string) bool {
	if ctx.Yes {
		return true
	}
	fmt.Fprintf(ctx.Out, "%s [y/N] ", question)
	line, err := ctx.In.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(ctx.Out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// save stages the document and writes it once the user agrees.
func (ctx *Context) save() error {
	written, err := ctx.Session.Save(func(path string) bool {
		return ctx.confirm(fmt.Sprintf("Overwrite %s?", path))
	})
	if err != nil {
		return err
	}
	if !written {
		fmt.Fprintln(ctx.Out, "Not saved.")
		return nil
	}
	index, length := ctx.Session.Position()
	fmt.Fprintf(ctx.Out, "Saved %s (object %d of %d).\n", ctx.Session.Path(), index+1, length)
	return nil
}

// Target names the file to open and the object to edit.
type Target struct {
	File  string `arg:"" help:"JSON file containing an array of objects." type:"path"`
	Index int    `help:"Zero-based index of the object to work on." short:"n" default:"0"`
}

func (t Target) open(ctx *Context) ([]models.Row, error) {
	if _, err := ctx.Session.LoadDocument(t.File); err != nil {
		return nil, err
	}
	return ctx.Session.Goto(t.Index)
}

// ShowCmd prints an object as a form.
type ShowCmd struct {
	File     string   `arg:"" optional:"" help:"JSON file to show. Defaults to the last opened file." type:"path"`
	Index    int      `help:"Zero-based index of the object to show." short:"n" default:"0"`
	Collapse []string `help:"Dot-separated section paths to collapse."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	file := c.File
	if file == "" {
		file = ctx.Session.LastOpened()
		if file == "" {
			return errors.NewStateError("no file given and no file was opened before", errors.ErrNoDocument)
		}
	}
	rows, err := Target{File: file, Index: c.Index}.open(ctx)
	if err != nil {
		return err
	}
	for _, p := range c.Collapse {
		rows = ctx.Session.ToggleSection(models.ParsePath(p))
	}
	printHeader(ctx)
	printRows(ctx.Out, rows)
	return nil
}

// SetCmd edits leaf fields of an object.
type SetCmd struct {
	Target
	Assignments []string `arg:"" name:"path=value" help:"Fields to set, as dot-separated path=text."`
}

func (c *SetCmd) Run(ctx *Context) error {
	if _, err := c.open(ctx); err != nil {
		return err
	}
	for _, a := range c.Assignments {
		path, text, ok := strings.Cut(a, "=")
		if !ok {
			return errors.NewValidationError(fmt.Sprintf("assignment %q must have the form path=value", a), nil)
		}
		if err := ctx.Session.SetFieldText(models.ParsePath(path), text); err != nil {
			return err
		}
	}
	return ctx.save()
}

// AddObjectCmd appends a new object.
type AddObjectCmd struct {
	File  string `arg:"" help:"JSON file containing an array of objects." type:"path"`
	Key   string `arg:"" help:"Name of the first property."`
	Value string `arg:"" help:"Value of the first property, as JSON or plain text."`
}

func (c *AddObjectCmd) Run(ctx *Context) error {
	if _, err := ctx.Session.LoadDocument(c.File); err != nil {
		return err
	}
	if _, err := ctx.Session.AddObject(c.Key, c.Value); err != nil {
		return err
	}
	return ctx.save()
}

// DuplicateCmd copies the last object.
type DuplicateCmd struct {
	File string `arg:"" help:"JSON file containing an array of objects." type:"path"`
}

func (c *DuplicateCmd) Run(ctx *Context) error {
	if _, err := ctx.Session.LoadDocument(c.File); err != nil {
		return err
	}
	if _, err := ctx.Session.DuplicateLast(); err != nil {
		return err
	}
	return ctx.save()
}

// AddPropertyCmd adds a property to an object or one of its sections.
type AddPropertyCmd struct {
	Target
	Key   string `arg:"" help:"Name of the property."`
	Value string `arg:"" help:"Value as JSON or plain text; \"object\" creates an empty section."`
	At    string `help:"Dot-separated path of the section to add to. Defaults to the object itself."`
}

func (c *AddPropertyCmd) Run(ctx *Context) error {
	if _, err := c.open(ctx); err != nil {
		return err
	}
	at := models.ParsePath(c.At)
	exists, err := ctx.Session.PropertyExists(at, c.Key)
	if err != nil {
		return err
	}
	if exists && !ctx.confirm(fmt.Sprintf("Property '%s' already exists. Overwrite?", strings.TrimSpace(c.Key))) {
		fmt.Fprintln(ctx.Out, "Not changed.")
		return nil
	}
	if _, err := ctx.Session.AddProperty(at, c.Key, c.Value); err != nil {
		return err
	}
	return ctx.save()
}

// DeletePropertyCmd removes a field or section.
type DeletePropertyCmd struct {
	Target
	Path string `arg:"" help:"Dot-separated path of the field or section."`
}

func (c *DeletePropertyCmd) Run(ctx *Context) error {
	if _, err := c.open(ctx); err != nil {
		return err
	}
	if _, err := ctx.Session.DeleteProperty(models.ParsePath(c.Path)); err != nil {
		return err
	}
	return ctx.save()
}

// DeleteObjectCmd removes an object.
type DeleteObjectCmd struct {
	Target
}

func (c *DeleteObjectCmd) Run(ctx *Context) error {
	if _, err := c.open(ctx); err != nil {
		return err
	}
	if _, err := ctx.Session.DeleteObject(); err != nil {
		return err
	}
	return ctx.save()
}

// PreviewCmd prints an object as JSON.
type PreviewCmd struct {
	Target
}

func (c *PreviewCmd) Run(ctx *Context) error {
	if _, err := c.open(ctx); err != nil {
		return err
	}
	out, err := ctx.Session.Preview()
	if err != nil {
		return err
	}
	_, err = io.WriteString(ctx.Out, out)
	return err
}

// ReplaceCmd swaps an object for JSON text, as an edited preview would.
type ReplaceCmd struct {
	Target
	From string `help:"File holding the replacement object. Reads standard input when omitted; combine with --yes." type:"path"`
}

func (c *ReplaceCmd) Run(ctx *Context) error {
	if _, err := c.open(ctx); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if c.From != "" {
		data, err = os.ReadFile(c.From)
	} else {
		data, err = io.ReadAll(ctx.In)
	}
	if err != nil {
		return errors.NewIOError("failed to read replacement object", err)
	}
	if _, err := ctx.Session.ApplyPreview(string(data)); err != nil {
		return err
	}
	return ctx.save()
}

// TableCmd prints the document with one row per object and one column per
// leaf path.
type TableCmd struct {
	File string   `arg:"" help:"JSON file containing an array of objects." type:"path"`
	Set  []string `help:"Cells to set before printing, as row:column=text. Saves the file." placeholder:"ROW:COLUMN=TEXT"`
}

func (c *TableCmd) Run(ctx *Context) error {
	if _, err := ctx.Session.LoadDocument(c.File); err != nil {
		return err
	}
	if len(c.Set) > 0 {
		columns := ctx.Session.Columns()
		for _, a := range c.Set {
			row, column, text, err := parseCellAssignment(a, columns)
			if err != nil {
				return err
			}
			if err := ctx.Session.SetCell(row, column, text); err != nil {
				return err
			}
		}
		if err := ctx.save(); err != nil {
			return err
		}
	}
	return printTable(ctx)
}

// parseCellAssignment splits row:column=text. A column that names one of
// columns exactly is taken whole, so keys containing dots can be set.
func parseCellAssignment(a string, columns []models.Path) (int, models.Path, string, error) {
	invalid := errors.NewValidationError(fmt.Sprintf("cell %q must have the form row:column=text", a), nil)
	rowText, rest, ok := strings.Cut(a, ":")
	if !ok {
		return 0, nil, "", invalid
	}
	name, text, ok := strings.Cut(rest, "=")
	if !ok {
		return 0, nil, "", invalid
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowText))
	if err != nil {
		return 0, nil, "", errors.NewValidationError(fmt.Sprintf("cell %q has no row number", a), err)
	}
	for _, col := range columns {
		if col.String() == name {
			return row, col, text, nil
		}
	}
	return row, models.ParsePath(name), text, nil
}

func printTable(ctx *Context) error {
	columns := ctx.Session.Columns()
	_, length := ctx.Session.Position()

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.String()
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\n", strings.Join(names, "\t"))
	for i := range length {
		cells := make([]string, len(columns))
		for j, col := range columns {
			text, ok, err := ctx.Session.Cell(i, col)
			if err != nil {
				return err
			}
			if !ok {
				text = "-"
			}
			cells[j] = text
		}
		fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// ValidateCmd checks a document without changing it.
type ValidateCmd struct {
	File string `arg:"" help:"JSON file to check." type:"path"`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	if _, err := ctx.Session.LoadDocument(c.File); err != nil {
		return err
	}
	_, length := ctx.Session.Position()
	fmt.Fprintf(ctx.Out, "%s: valid, %d objects\n", ctx.Session.Path(), length)
	return nil
}

func printHeader(ctx *Context) {
	index, length := ctx.Session.Position()
	fmt.Fprintf(ctx.Out, "%s: object %d of %d\n", ctx.Session.Path(), index+1, length)
}

// printRows writes rows as an indented form.
func printRows(w io.Writer, rows []models.Row) {
	for _, row := range rows {
		indent := strings.Repeat("  ", row.Depth)
		if row.IsSection() {
			if row.Collapsed {
				fmt.Fprintf(w, "%s%s: [collapsed]\n", indent, row.Label)
			} else {
				fmt.Fprintf(w, "%s%s:\n", indent, row.Label)
			}
			continue
		}
		fmt.Fprintf(w, "%s%s = %s (%s)\n", indent, row.Label, row.Text, row.Type)
	}
}
