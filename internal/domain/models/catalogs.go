// internal/domain/models/catalogs.go
package models

// Catalogs feeding the lesson-plan form drop-downs. These mirror the
// institution's current offering; descriptive fields stay free-text in the
// stored plan, so extending a catalog needs no migration.

// Grades (series).
var Grades = []string{"1", "2", "3"}

// Shifts (turnos).
var Shifts = []string{"Integral", "Matutino", "Vespertino", "Noturno"}

// Modalities (modalidades).
var Modalities = []string{"Integral", "EJA", "Regular"}

// Tracks (itinerarios formativos).
var Tracks = []string{"1ª Série", "CIÊNCIAS HUMANAS", "CIÊNCIAS EXATAS", "ENSINO TÉCNICO", "NSA"}

// Segments (segmentos de ensino).
var Segments = []string{
	"Ensino Médio",
	"Ensino Profissional Técnico Administração",
	"Ensino Profissional Técnico Vendas",
	"Ensino Profissional Técnico Agronegocio",
	"Ensino Profissional Técnico Logística",
	"Ensino Profissional Técnico Desenvolvimento de Sistemas",
}

// Sections (turmas).
var Sections = []string{"A", "B", "C", "D", "E", "F"}
