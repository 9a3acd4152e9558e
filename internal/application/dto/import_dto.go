package dto

// ImportSummary resumen de una corrida de ingesta masiva.
// El pipeline nunca aborta por una fila: los errores se acumulan acotados.
type ImportSummary struct {
	TotalRows int      `json:"total_rows"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Errors    []string `json:"errors"`
}
