package main

import (
	"chat-hub/client"
	"chat-hub/domain"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

var (
	titleStyle  = color.New(color.BgBlack, color.FgGreen)
	senderStyle = color.New(color.FgCyan, color.OpBold)
	errorStyle  = color.New(color.FgRed)
	dimStyle    = color.New(color.FgGray)
)

type printer struct {
	w       io.Writer
	colours bool
}

func newPrinter(w io.Writer, colours bool) *printer {
	return &printer{w: w, colours: colours}
}

func (p *printer) paint(style color.Style, s string) string {
	if !p.colours {
		return s
	}
	return style.Render(s)
}

func (p *printer) Title(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.paint(titleStyle, "  ====== "+fmt.Sprintf(format, args...)+" ======"))
}

func (p *printer) Line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Error(err error) {
	_, _ = fmt.Fprintln(p.w, p.paint(errorStyle, "error: "+err.Error()))
}

func (p *printer) User(u client.User) {
	p.Line("%s  %s  %s", u.ID, p.paint(senderStyle, u.Username), u.Email)
}

func (p *printer) Message(m domain.Message) {
	line := fmt.Sprintf("%s %s %s",
		p.paint(dimStyle, "["+m.CreatedAt.Local().Format(time.TimeOnly)+"]"),
		p.paint(senderStyle, m.SenderName+":"),
		m.Content)
	if m.Attachment != nil {
		line += p.paint(dimStyle, fmt.Sprintf(" (%s, %s, %d bytes)", m.Attachment.FileName, m.Attachment.MediaType, len(m.Attachment.Data)))
	}
	_, _ = fmt.Fprintln(p.w, line)
}

func (p *printer) Chats(chats []client.Chat) {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader([]string{"Id", "Name", "Group", "Members", "Last message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	for _, c := range chats {
		last := "-"
		if c.LastMessageAt != nil {
			last = c.LastMessageAt.Local().Format(time.DateTime)
		}
		table.Append([]string{
			c.ID,
			lo.FromPtrOr(c.Name, "-"),
			lo.Ternary(c.IsGroup, "yes", "no"),
			strings.Join(lo.Map(c.Participants, func(id string, _ int) string { return shortID(id) }), ","),
			last,
		})
	}
	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
