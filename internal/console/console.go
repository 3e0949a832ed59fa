// Package console runs a text session with an agent on a terminal: user
// lines go to the model when one is configured, and slash commands drive
// tools directly.
package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/llm"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/metrics"
)

const noModelReply = "No language model is configured. Use /call <tool> key=value to drive tools directly, or /help."

type styles struct {
	agent  lipgloss.Style
	tool   lipgloss.Style
	dim    lipgloss.Style
	err    lipgloss.Style
	prompt lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		agent:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		tool:   r.NewStyle().Foreground(lipgloss.Color("214")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("240")),
		err:    r.NewStyle().Foreground(lipgloss.Color("196")),
		prompt: r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
	}
}

// Console is one terminal session with one agent.
type Console struct {
	agent  *agent.Agent
	conv   *llm.Conversation
	out    io.Writer
	styles styles
}

// New creates a console for a. model may be nil, in which case only slash
// commands do anything useful.
func New(a *agent.Agent, model llm.Model, maxToolRounds int, out io.Writer) *Console {
	c := &Console{
		agent:  a,
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
	if model != nil {
		c.conv = llm.NewConversation(model, a.Tools, a.Instructions, maxToolRounds)
	}
	return c
}

// Run reads lines from in until end of input, /quit or ctx is cancelled.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics.RecordSessionStart(c.agent.Name)
	logging.Session("Console session started with %s (%s)", c.agent.Name, c.agent.Company)
	defer logging.Session("Console session with %s ended", c.agent.Name)

	c.say(c.agent.Greeting)
	if c.conv == nil {
		c.note("Running without a language model. Type /help for commands.")
	}

	lines := make(chan string)
	go readLines(ctx, in, lines)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.promptLine()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := c.Handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// readLines forwards lines until EOF or cancellation, then closes out.
func readLines(ctx context.Context, in io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logging.SessionWarn("Input read failed: %v", err)
	}
}

// Handle processes one input line and reports whether the session should
// end.
func (c *Console) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "/") {
		return c.command(ctx, line)
	}

	if c.conv == nil {
		c.note(noModelReply)
		return false
	}
	reply, err := c.conv.Turn(ctx, line)
	if err != nil {
		logging.SessionError("Turn failed: %v", err)
		c.fail("Sorry, I ran into a problem: %v", err)
		return false
	}
	if reply != "" {
		c.say(reply)
	}
	return false
}

func (c *Console) command(ctx context.Context, line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	switch strings.ToLower(name) {
	case "/quit", "/exit", "/q":
		c.note("Goodbye.")
		return true
	case "/help":
		c.help()
	case "/tools":
		c.listTools()
	case "/state":
		c.showState()
	case "/call":
		c.call(ctx, rest)
	default:
		c.fail("Unknown command %s. Type /help for commands.", name)
	}
	return false
}

func (c *Console) help() {
	c.note(strings.Join([]string{
		"/help                      show this help",
		"/tools                     list the agent's tools",
		"/call <tool> key=value...  invoke a tool directly",
		"/state                     print the session state",
		"/quit                      end the session",
	}, "\n"))
}

func (c *Console) listTools() {
	var b strings.Builder
	for i, t := range c.agent.Tools.All() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(t.Name)
		if params := describeParams(t.Schema.Required, t.Schema.PropertyNames()); params != "" {
			b.WriteString(" " + params)
		}
		b.WriteString(": " + t.Description)
	}
	fmt.Fprintln(c.out, c.styles.tool.Render(b.String()))
}

// describeParams renders parameters as "(name, [optional])".
func describeParams(required, all []string) string {
	if len(all) == 0 {
		return ""
	}
	req := make(map[string]bool, len(required))
	for _, r := range required {
		req[r] = true
	}
	parts := make([]string, len(all))
	for i, p := range all {
		if req[p] {
			parts[i] = p
		} else {
			parts[i] = "[" + p + "]"
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (c *Console) showState() {
	data, err := json.MarshalIndent(c.agent.Snapshot(), "", "  ")
	if err != nil {
		c.fail("Could not encode state: %v", err)
		return
	}
	fmt.Fprintln(c.out, c.styles.dim.Render(string(data)))
}

func (c *Console) call(ctx context.Context, rest string) {
	tool, args, err := ParseCall(rest)
	if err != nil {
		c.fail("%v", err)
		return
	}
	logging.Tools("Direct call %s %v (persona=%s)", tool, args, c.agent.Name)
	fmt.Fprintln(c.out, c.styles.tool.Render(tool+" → "+c.agent.Tools.Invoke(ctx, tool, args)))
}

func (c *Console) say(text string) {
	fmt.Fprintf(c.out, "%s %s\n", c.styles.agent.Render(c.agent.Title+":"), text)
}

func (c *Console) note(text string) {
	fmt.Fprintln(c.out, c.styles.dim.Render(text))
}

func (c *Console) fail(format string, args ...any) {
	fmt.Fprintln(c.out, c.styles.err.Render(fmt.Sprintf(format, args...)))
}

func (c *Console) promptLine() {
	fmt.Fprint(c.out, c.styles.prompt.Render("you> "))
}
