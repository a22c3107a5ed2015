package trackingnumber

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// DefaultPrefix префикс трек-номера по умолчанию
const DefaultPrefix = "LF"

const randomSpace = 1_000_000

// Clock источник текущего времени
type Clock func() time.Time

// Generator выдает трек-номера вида <префикс><год><6 цифр>, например LF2025004217.
// Уникальность не проверяется: её гарантирует уникальный индекс в БД,
// а вызывающий код генерирует новый номер при конфликте.
type Generator struct {
	prefix string
	clock  Clock

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator создает генератор. Пустой prefix заменяется на DefaultPrefix.
func NewGenerator(prefix string) *Generator {
	return NewGeneratorWithSource(prefix, time.Now, rand.NewSource(time.Now().UnixNano()))
}

// NewGeneratorWithSource создает генератор с заданными часами и источником случайных чисел
func NewGeneratorWithSource(prefix string, clock Clock, src rand.Source) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{
		prefix: prefix,
		clock:  clock,
		rnd:    rand.New(src),
	}
}

// Next возвращает очередной трек-номер
func (g *Generator) Next() string {
	g.mu.Lock()
	n := g.rnd.Intn(randomSpace)
	g.mu.Unlock()

	return fmt.Sprintf("%s%04d%06d", g.prefix, g.clock().Year(), n)
}
