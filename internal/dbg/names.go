package dbg

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
)

// Turns pointers into readable names, so that traces of a sweep can be
// followed by eye. Names are handed out lazily in order of demand and never
// released, so a Namer should only live as long as the run it's tracing.

type Namer struct {
	mu   sync.Mutex
	memo map[interface{}]string
}

func NewNamer() *Namer {
	return &Namer{memo: make(map[interface{}]string)}
}

func (n *Namer) Name(obj interface{}) string {
	if obj == nil {
		return "Ø"
	}
	if v := reflect.ValueOf(obj); v.Kind() == reflect.Ptr && v.IsNil() {
		return "Ø"
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if r, ok := n.memo[obj]; ok {
		return r
	}
	r := fmt.Sprintf("%s%s", title(petname.Adjective()), title(petname.Name()))
	n.memo[obj] = r
	return r
}

// Forget every name handed out so far.
func (n *Namer) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.memo = make(map[interface{}]string)
}

var global = NewNamer()

func init() {
	// Since the ids are generated in order of demand, we make them
	// nondeterministic to remind the user that the same name doesn't refer to
	// the same thing between runs.
	petname.NonDeterministicMode()
}

// Name from the process wide Namer.
func Name(obj interface{}) string {
	return global.Name(obj)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
