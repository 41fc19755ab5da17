package fields

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/startup-strategic-planner/agent/contract"
)

// Field identifies one of the canonical startup profile attributes.
type Field string

const (
	StartupName           Field = "startup_name"
	Mission               Field = "mission"
	Vision                Field = "vision"
	Customers             Field = "customers"
	StartupStage          Field = "startup_stage"
	ValueProposition      Field = "value_proposition"
	CompetitiveAdvantages Field = "competitive_advantages"
)

// Count is the number of canonical fields.
const Count = 7

var all = [Count]Field{
	StartupName,
	Mission,
	Vision,
	Customers,
	StartupStage,
	ValueProposition,
	CompetitiveAdvantages,
}

// All returns the canonical fields in profile order.
func All() []Field {
	out := make([]Field, Count)
	copy(out, all[:])
	return out
}

// Index returns the position of f in profile order, or -1.
func Index(f Field) int {
	for i, candidate := range all {
		if candidate == f {
			return i
		}
	}
	return -1
}

func (f Field) Valid() bool {
	return Index(f) >= 0
}

func (f Field) String() string {
	return string(f)
}

// Parse resolves a raw key to a canonical field.
func Parse(key string) (Field, error) {
	f := Field(strings.TrimSpace(key))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", contractx.ErrFieldNotFound, key)
	}
	return f, nil
}

// Definition returns the one-sentence definition used to steer generation.
func Definition(f Field) string {
	switch f {
	case StartupName:
		return "Um nome comercial competitivo, que ganhe destaque no mercado."
	case Mission:
		return "A missão define o propósito principal da startup, ou seja, o que ela faz e para quem."
	case Vision:
		return "A visão é uma representação objetiva do futuro esperado para a startup."
	case Customers:
		return "Os clientes representam o público-alvo ou mercado para o qual a startup oferece seus produtos ou serviços."
	case StartupStage:
		return "O estágio da startup refere-se à fase do negócio, podendo ser, em ordem de evolução da startup: Ideação, Validação, Operação, Tração ou Scale-Up."
	case ValueProposition:
		return "As propostas de valor são os benefícios entregues pela empresa sob a ótica do cliente, o que agrega valor ao serviço ou produto entregue ao cliente."
	case CompetitiveAdvantages:
		return "As vantagens competitivas são os diferenciais que destacam a startup frente aos concorrentes no mercado."
	default:
		return ""
	}
}

// Lookup returns the definition for a raw key.
func Lookup(key string) (string, error) {
	f, err := Parse(key)
	if err != nil {
		return "", err
	}
	return Definition(f), nil
}
