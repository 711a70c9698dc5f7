package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jangbu-dev/jangbu/internal/cli"
	"github.com/jangbu-dev/jangbu/internal/grid"
)

const maxColumnWidth = 24

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StatePartyEdit:
		return m.renderPartyEditor()
	case StateConfirm:
		return m.renderConfirm()
	case StateDone:
		return m.renderDone()
	default:
		return m.renderRows()
	}
}

func (m Model) renderRows() string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("업로드 미리보기"))
	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf(
		"계좌: %s   헤더 행: %d   선택: %d건",
		m.account, m.preview.StartRow, m.preview.SelectedCount())))
	b.WriteString("\n\n")

	visible := m.visibleColumns()
	b.WriteString(m.renderHeaderLine(visible))
	b.WriteString("\n")

	from, to := m.rowWindow()
	for abs := from; abs < to; abs++ {
		b.WriteString(m.renderRowLine(abs, visible))
		b.WriteString("\n")
	}

	if m.lastError != nil {
		b.WriteString("\n")
		b.WriteString(cli.FormatError(m.lastError.Error()))
	}

	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(
		"x 선택  Enter 거래처  a 계좌  [/] 헤더 행  v 전체열  c 저장  q 종료"))
	return b.String()
}

// visibleColumns picks the header columns shown in the table, hiding
// balance-style noise columns by default.
func (m Model) visibleColumns() []int {
	header := m.preview.HeaderRow()
	var cols []int
	for i, cell := range header {
		if m.showAllCols || grid.DefaultVisible(cell.String()) {
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		for i := range header {
			cols = append(cols, i)
		}
	}
	return cols
}

func (m Model) renderHeaderLine(visible []int) string {
	header := m.preview.HeaderRow()
	parts := []string{"   ", pad("구분", 8), pad("거래처", 16)}
	for _, col := range visible {
		parts = append(parts, pad(header[col].String(), 14))
	}
	return cli.BoldStyle.Render(strings.Join(parts, " "))
}

func (m Model) renderRowLine(abs int, visible []int) string {
	marker := "[ ]"
	if m.preview.Selected[abs] {
		marker = cli.SuccessStyle.Render("[x]")
	}

	kind := m.preview.RowKind(abs)
	parts := []string{marker, pad(kind.Label(), 8), pad(m.preview.Party(abs), 16)}
	for _, col := range visible {
		parts = append(parts, pad(m.preview.Grid.Cell(abs, col).String(), 14))
	}

	line := strings.Join(parts, " ")
	if abs == m.cursor {
		return lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor).Render("> " + line)
	}
	return "  " + line
}

// rowWindow returns the half-open range of body rows that fits on screen,
// keeping the cursor visible.
func (m Model) rowWindow() (int, int) {
	from := m.preview.BodyFrom()
	total := len(m.preview.Grid)

	rows := m.height - 8
	if rows < 5 {
		rows = 5
	}
	if total-from <= rows {
		return from, total
	}

	start := m.cursor - rows/2
	if start < from {
		start = from
	}
	if start+rows > total {
		start = total - rows
	}
	return start, start + rows
}

func (m Model) renderPartyEditor() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("행 %d 거래처 지정\n\n", m.editRow+1))
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.suggestions) == 0 {
		b.WriteString(cli.SubtleStyle.Render("일치하는 거래처 없음 — Enter로 새로 등록"))
	} else {
		for i, p := range m.suggestions {
			line := fmt.Sprintf("%s (%d회)", p.Name, p.Freq)
			if i == m.sugCursor {
				line = lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor).Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render("↑/↓ 선택  Enter 확정  Esc 취소"))
	return cli.RenderBox("거래처", b.String())
}

func (m Model) renderConfirm() string {
	content := fmt.Sprintf("%d건을 '%s' 계좌로 저장할까요?\n\n", m.preview.SelectedCount(), m.account) +
		cli.SubtleStyle.Render("y 저장  n 취소")
	return cli.RenderBox("저장 확인", content)
}

func (m Model) renderDone() string {
	return cli.FormatSuccess(fmt.Sprintf("%d건 저장 완료", m.committed)) + "\n" +
		cli.SubtleStyle.Render("아무 키나 누르면 종료합니다")
}

func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > maxColumnWidth {
		return s
	}
	if w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
