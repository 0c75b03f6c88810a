package entity

// Candidate es un artículo propuesto por el servicio de extracción de IA
// a partir de texto libre. Quantity es un delta CON SIGNO: positivo =
// stock recibido, negativo = stock consumido. Solo se interpreta como
// cantidad inicial cuando el nombre no coincide con ningún artículo.
type Candidate struct {
	Name     string
	Category string
	Quantity int
	Unit     string
	MinStock int
}
