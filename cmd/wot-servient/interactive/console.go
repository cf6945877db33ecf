// Package interactive provides the interactive command console
// for wot-servient.
package interactive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/wot-protocol/wot-go/pkg/events"
	"github.com/wot-protocol/wot-go/pkg/exposed"
	"github.com/wot-protocol/wot-go/pkg/servient"
	"github.com/wot-protocol/wot-go/pkg/thing"
)

// Console handles interactive mode for wot-servient.
type Console struct {
	sv *servient.Servient
	rl *readline.Instance

	// Active watch subscriptions keyed by thing ID. Touched only from
	// the Run loop goroutine.
	watches map[string]*watch
}

// watch is one live event subscription with its printer goroutine.
type watch struct {
	sub  *events.Subscription
	done chan struct{}
}

// New creates a new interactive console for the servient.
func New(sv *servient.Servient) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "wot> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{
		sv:      sv,
		rl:      rl,
		watches: make(map[string]*watch),
	}, nil
}

// completer offers tab completion over the command names.
func completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("things"),
		readline.PcItem("td"),
		readline.PcItem("read"),
		readline.PcItem("write"),
		readline.PcItem("invoke"),
		readline.PcItem("emit"),
		readline.PcItem("watch"),
		readline.PcItem("unwatch"),
		readline.PcItem("add-property"),
		readline.PcItem("remove-property"),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()
	defer c.stopWatches()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "things", "ls":
			c.cmdThings()

		case "td":
			c.cmdTD(args)

		case "read", "r":
			c.cmdRead(ctx, args)

		case "write", "w":
			c.cmdWrite(ctx, args)

		case "invoke":
			c.cmdInvoke(ctx, args)

		case "emit":
			c.cmdEmit(args)

		case "watch":
			c.cmdWatch(args)

		case "unwatch":
			c.cmdUnwatch(args)

		case "add-property":
			c.cmdAddProperty(args)

		case "remove-property":
			c.cmdRemoveProperty(args)

		case "status":
			c.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
WoT Servient Commands:
  Things:
    things                          - List registered things
    td <thing>                      - Print a thing description
    status                          - Show servient status

  Interactions:
    read <thing> <property>         - Read a property value
    write <thing> <property> <val>  - Write a property value
    invoke <thing> <action> [input] - Invoke an action
    emit <thing> <event> [payload]  - Emit a thing event

  Watching:
    watch <thing>                   - Print the thing's events as they happen
    unwatch <thing>                 - Stop watching a thing

  Description:
    add-property <thing> <name> <type> [value] - Add a property affordance
    remove-property <thing> <name>             - Remove a property affordance

  General:
    help                            - Show this help
    exit                            - Exit the servient

  Things can be addressed by ID or URL name, e.g. "my-lamp".
  Values are JSON: true, 42, "text", {"level": 3}. Bare words are strings.`)
}

// resolveThing looks a thing up by ID or URL name and reports misses
// to the user.
func (c *Console) resolveThing(id string) (*exposed.ExposedThing, bool) {
	et, ok := c.sv.ExposedThing(id)
	if !ok {
		fmt.Fprintf(c.rl.Stdout(), "Thing not found: %s (use 'things' to list)\n", id)
		return nil, false
	}
	return et, true
}

// cmdThings handles the things command.
func (c *Console) cmdThings() {
	things := c.sv.Things()
	if len(things) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No things registered")
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "\nRegistered Things (%d):\n", len(things))
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	for _, et := range things {
		status := "disabled"
		if c.sv.Enabled(et.ID()) {
			status = "exposed"
		}
		desc := et.Thing().Description()
		fmt.Fprintf(c.rl.Stdout(), "  %s\n", et.Title())
		fmt.Fprintf(c.rl.Stdout(), "      ID: %s\n", et.ID())
		fmt.Fprintf(c.rl.Stdout(), "      URL name: %s\n", et.Thing().URLName())
		fmt.Fprintf(c.rl.Stdout(), "      Status: %s\n", status)
		fmt.Fprintf(c.rl.Stdout(), "      Interactions: %d properties, %d actions, %d events\n",
			len(desc.Properties), len(desc.Actions), len(desc.Events))
		fmt.Fprintln(c.rl.Stdout())
	}
}

// cmdTD handles the td command.
func (c *Console) cmdTD(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: td <thing>")
		return
	}

	et, ok := c.resolveThing(args[0])
	if !ok {
		return
	}

	data, err := et.ThingDescription()
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fmt.Fprintln(c.rl.Stdout(), string(data))
		return
	}
	fmt.Fprintln(c.rl.Stdout(), pretty.String())
}

// cmdRead handles the read command.
func (c *Console) cmdRead(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: read <thing> <property>")
		fmt.Fprintln(c.rl.Stdout(), "  Example: read my-lamp brightness")
		return
	}

	et, ok := c.resolveThing(args[0])
	if !ok {
		return
	}

	value, err := et.ReadProperty(ctx, args[1])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "%s = %s\n", args[1], formatValue(value))
}

// cmdWrite handles the write command.
func (c *Console) cmdWrite(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: write <thing> <property> <value>")
		fmt.Fprintln(c.rl.Stdout(), "  Example: write my-lamp brightness 80")
		return
	}

	et, ok := c.resolveThing(args[0])
	if !ok {
		return
	}

	value := parseValue(args[2:])
	if err := et.WriteProperty(ctx, args[1], value); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Write failed: %v\n", err)
		return
	}

	fmt.Fprintln(c.rl.Stdout(), "OK")
}

// cmdInvoke handles the invoke command.
func (c *Console) cmdInvoke(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: invoke <thing> <action> [input]")
		fmt.Fprintln(c.rl.Stdout(), "  Example: invoke my-lamp toggle")
		return
	}

	et, ok := c.resolveThing(args[0])
	if !ok {
		return
	}

	var input any
	if len(args) > 2 {
		input = parseValue(args[2:])
	}

	output, err := et.InvokeAction(ctx, args[1], input)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invoke failed: %v\n", err)
		return
	}

	if output == nil {
		fmt.Fprintln(c.rl.Stdout(), "OK")
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "=> %s\n", formatValue(output))
}

// cmdEmit handles the emit command.
func (c *Console) cmdEmit(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: emit <thing> <event> [payload]")
		fmt.Fprintln(c.rl.Stdout(), "  Example: emit my-lamp overheated 105.5")
		return
	}

	et, ok := c.resolveThing(args[0])
	if !ok {
		return
	}

	var payload any
	if len(args) > 2 {
		payload = parseValue(args[2:])
	}

	if err := et.EmitEvent(args[1], payload); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Emit failed: %v\n", err)
		return
	}

	fmt.Fprintln(c.rl.Stdout(), "OK")
}

// cmdWatch handles the watch command.
func (c *Console) cmdWatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: watch <thing>")
		return
	}

	et, ok := c.resolveThing(args[0])
	if !ok {
		return
	}

	if _, exists := c.watches[et.ID()]; exists {
		fmt.Fprintf(c.rl.Stdout(), "Already watching %s\n", et.Title())
		return
	}

	sub := et.Subscribe(nil)
	w := &watch{sub: sub, done: make(chan struct{})}
	c.watches[et.ID()] = w

	title := et.Title()
	go func() {
		defer close(w.done)
		for ev := range sub.C() {
			c.printEvent(title, ev)
		}
	}()

	fmt.Fprintf(c.rl.Stdout(), "Watching %s (unwatch to stop)\n", title)
}

// cmdUnwatch handles the unwatch command.
func (c *Console) cmdUnwatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: unwatch <thing>")
		return
	}

	et, ok := c.resolveThing(args[0])
	if !ok {
		return
	}

	w, exists := c.watches[et.ID()]
	if !exists {
		fmt.Fprintf(c.rl.Stdout(), "Not watching %s\n", et.Title())
		return
	}

	w.sub.Cancel()
	<-w.done
	delete(c.watches, et.ID())
	fmt.Fprintf(c.rl.Stdout(), "Stopped watching %s\n", et.Title())
}

// stopWatches cancels every active watch and waits for the printers.
func (c *Console) stopWatches() {
	for id, w := range c.watches {
		w.sub.Cancel()
		<-w.done
		delete(c.watches, id)
	}
}

// printEvent displays one watched event above the prompt.
func (c *Console) printEvent(title string, ev events.Event) {
	fmt.Fprintf(c.rl.Stdout(), "\n[%s] %s: %s %s = %s\n",
		time.Now().Format("15:04:05"),
		title,
		ev.Type,
		ev.Name,
		formatValue(ev.Payload))
	c.rl.Refresh()
}

// cmdAddProperty handles the add-property command.
func (c *Console) cmdAddProperty(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: add-property <thing> <name> <type> [value]")
		fmt.Fprintln(c.rl.Stdout(), "  Example: add-property my-lamp color string \"warm white\"")
		return
	}

	et, ok := c.resolveThing(args[0])
	if !ok {
		return
	}

	dataType, err := parseDataType(args[2])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}

	def := thing.PropertyDefinition{
		Schema:     &thing.DataSchema{Type: dataType},
		Writable:   true,
		Observable: true,
	}
	if len(args) > 3 {
		def.Value = parseValue(args[3:])
	}

	if err := et.AddProperty(args[1], def); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Add failed: %v\n", err)
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "Added property %q to %s\n", args[1], et.Title())
}

// cmdRemoveProperty handles the remove-property command.
func (c *Console) cmdRemoveProperty(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: remove-property <thing> <name>")
		return
	}

	et, ok := c.resolveThing(args[0])
	if !ok {
		return
	}

	if err := et.RemoveProperty(args[1]); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Remove failed: %v\n", err)
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "Removed property %q from %s\n", args[1], et.Title())
}

// cmdStatus shows the servient status.
func (c *Console) cmdStatus() {
	fmt.Fprintln(c.rl.Stdout(), "\nServient Status")
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(c.rl.Stdout(), "  State:    %s\n", c.sv.State())

	for _, srv := range c.sv.Servers() {
		fmt.Fprintf(c.rl.Stdout(), "  Binding:  %s on %s\n", srv.Scheme(), srv.Addr())
	}

	things := c.sv.Things()
	exposedCount := 0
	for _, et := range things {
		if c.sv.Enabled(et.ID()) {
			exposedCount++
		}
	}
	fmt.Fprintf(c.rl.Stdout(), "  Things:   %d registered, %d exposed\n", len(things), exposedCount)
	fmt.Fprintf(c.rl.Stdout(), "  Watches:  %d\n", len(c.watches))
	fmt.Fprintln(c.rl.Stdout())
}

// parseDataType maps a user-supplied schema type name to a DataType.
func parseDataType(s string) (thing.DataType, error) {
	switch strings.ToLower(s) {
	case "boolean", "bool":
		return thing.TypeBoolean, nil
	case "integer", "int":
		return thing.TypeInteger, nil
	case "number", "float":
		return thing.TypeNumber, nil
	case "string":
		return thing.TypeString, nil
	case "object":
		return thing.TypeObject, nil
	case "array":
		return thing.TypeArray, nil
	case "null":
		return thing.TypeNull, nil
	default:
		return "", fmt.Errorf("unknown schema type: %s (use: boolean, integer, number, string, object, array, null)", s)
	}
}

// parseValue interprets the remaining arguments as a JSON value. Input
// that does not parse as JSON is taken as a plain string, so bare words
// work without quoting.
func parseValue(args []string) any {
	raw := strings.Join(args, " ")

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return strings.Trim(raw, "\"'")
}

// formatValue renders a value as compact JSON for display.
func formatValue(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}
