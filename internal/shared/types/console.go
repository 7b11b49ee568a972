package types

// Logger é a interface de log usada pelos casos de uso.
type Logger interface {
	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
}

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	Logger

	Printf(format string, a ...interface{})
	Println(a ...interface{})

	CreateTable() TableInterface
	DisplayTrendBars(monthlyCosts []MonthlyCost)
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// MonthlyCost representa o custo para um mês específico, usado para gráficos de tendência.
type MonthlyCost struct {
	Month string  `json:"month"`
	Cost  float64 `json:"cost"`
}
