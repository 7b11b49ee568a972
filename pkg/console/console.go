package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

const trendBarWidth = 40

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// Cores predefinidas para uso consistente
var (
	BoldRed     = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightBlue  = color.New(color.FgBlue, color.Bold).SprintFunc()
	BrightGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, row)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	tableData = append(tableData, t.rows...)

	rendered, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithRightAlignment().
		WithData(tableData).
		Srender()
	return rendered
}

// DisplayTrendBars exibe o custo mensal, do mais antigo ao mais recente, com a
// variação em relação ao mês anterior.
func (c *Console) DisplayTrendBars(monthlyCosts []types.MonthlyCost) {
	maxCost := 0.0
	for _, mc := range monthlyCosts {
		maxCost = math.Max(maxCost, mc.Cost)
	}

	if maxCost == 0 {
		pterm.Warning.Println("All costs are $0.00 for this period")
		return
	}

	tableData := pterm.TableData{{"Month", "Cost", "", "MoM Change"}}

	var prev *float64
	for _, mc := range monthlyCosts {
		bar := strings.Repeat("█", int((mc.Cost/maxCost)*trendBarWidth))
		change, style := "", pterm.FgBlue
		if prev != nil {
			change, style = monthOverMonth(*prev, mc.Cost)
		}

		tableData = append(tableData, []string{
			mc.Month,
			fmt.Sprintf("$%.2f", mc.Cost),
			style.Sprint(bar),
			style.Sprint(change),
		})

		cost := mc.Cost
		prev = &cost
	}

	rendered, _ := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	panel := pterm.DefaultBox.WithTitle("AWS Cost Trend").WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(rendered)

	fmt.Println("\n" + panel)
}

// monthOverMonth formata a variação percentual e escolhe a cor: vermelho para
// aumento, verde para redução.
func monthOverMonth(prev, cur float64) (string, pterm.Color) {
	if prev < 0.01 {
		if cur < 0.01 {
			return "0%", pterm.FgYellow
		}
		return "N/A", pterm.FgRed
	}

	pct := (cur - prev) / prev * 100.0
	switch {
	case math.Abs(pct) < 0.01:
		return "0%", pterm.FgYellow
	case pct > 999:
		return ">+999%", pterm.FgRed
	case pct < -999:
		return ">-999%", pterm.FgGreen
	case pct > 0:
		return fmt.Sprintf("+%.2f%%", pct), pterm.FgRed
	default:
		return fmt.Sprintf("%.2f%%", pct), pterm.FgGreen
	}
}
