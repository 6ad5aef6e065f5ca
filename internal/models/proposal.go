package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Proposal описывает сохранённое коммерческое предложение пользователя.
type Proposal struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	UserID      uuid.UUID        `db:"user_id" json:"user_id"`
	Name        string           `db:"name" json:"name"`
	ContentHTML string           `db:"content_html" json:"content_html"`
	FileDocx    string           `db:"file_docx" json:"file_docx,omitempty"`
	Metadata    ProposalMetadata `db:"metadata" json:"metadata"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// ProposalMetadata хранит исходные поля формы предложения. Имена полей
// совпадают с контрактом генератора, поэтому остаются испанскими.
// Неизвестные ключи сохраняются в Extra и переживают цикл чтения-записи.
type ProposalMetadata struct {
	NombreCliente     string   `json:"nombreCliente"`
	NombreEmpresa     string   `json:"nombreEmpresa"`
	ProblemaActual    string   `json:"problemaActual"`
	ObjetivoPrincipal string   `json:"objetivoPrincipal"`
	SolucionPropuesta string   `json:"solucionPropuesta"`
	FechaInicio       string   `json:"fechaInicio"`
	NombreServicio    string   `json:"nombreServicio"`
	Precio            string   `json:"precio"`
	Duracion          string   `json:"duracion"`
	Pasos             []string `json:"pasos"`
	Entregables       []string `json:"entregables"`
	Tono              string   `json:"tono"`
	Idioma            string   `json:"idioma"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownMetadataKeys перечисляет ключи, которые разбираются в типизированные поля.
var knownMetadataKeys = map[string]struct{}{
	"nombreCliente":     {},
	"nombreEmpresa":     {},
	"problemaActual":    {},
	"objetivoPrincipal": {},
	"solucionPropuesta": {},
	"fechaInicio":       {},
	"nombreServicio":    {},
	"precio":            {},
	"duracion":          {},
	"pasos":             {},
	"entregables":       {},
	"tono":              {},
	"idioma":            {},
}

type proposalMetadataAlias ProposalMetadata

// UnmarshalJSON разбирает типизированные поля и складывает остальные в Extra.
func (m *ProposalMetadata) UnmarshalJSON(data []byte) error {
	var alias proposalMetadataAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key := range raw {
		if _, known := knownMetadataKeys[key]; known {
			delete(raw, key)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}

	*m = ProposalMetadata(alias)
	m.Extra = raw
	return nil
}

// MarshalJSON собирает типизированные поля вместе с содержимым Extra.
func (m ProposalMetadata) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(proposalMetadataAlias(m))
	if err != nil {
		return nil, err
	}

	if len(m.Extra) == 0 {
		return typed, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(typed, &merged); err != nil {
		return nil, err
	}
	for key, value := range m.Extra {
		if _, known := knownMetadataKeys[key]; known {
			continue
		}
		merged[key] = value
	}

	return json.Marshal(merged)
}

// Value сериализует метаданные для записи в колонку jsonb.
func (m ProposalMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan восстанавливает метаданные из значения колонки jsonb.
func (m *ProposalMetadata) Scan(src interface{}) error {
	switch value := src.(type) {
	case []byte:
		if len(value) == 0 {
			*m = ProposalMetadata{}
			return nil
		}
		return json.Unmarshal(value, m)
	case string:
		if value == "" {
			*m = ProposalMetadata{}
			return nil
		}
		return json.Unmarshal([]byte(value), m)
	case nil:
		*m = ProposalMetadata{}
		return nil
	default:
		return fmt.Errorf("models: неподдерживаемый тип метаданных %T", src)
	}
}

// Draft описывает автосохранённый черновик формы. Полезная нагрузка
// хранится как есть, без разбора ключей.
type Draft struct {
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
