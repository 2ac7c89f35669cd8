package sema

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/stacks/arraystack"

	"tagml/internal/header"
	"tagml/internal/ontology"
	"tagml/internal/source"
)

// openMarkup is one element instance on a layer stack.
type openMarkup struct {
	QName string
	ID    uint64
	Span  source.Span // открывающий тег
}

// suspension remembers a suspended instance until it is resumed.
type suspension struct {
	ID     uint64
	Span   source.Span // тег <-q]
	Layers []string
}

// Context is the state of one document walk. It exists only when the header
// produced an ontology and its namespaces and entities parsed cleanly.
type Context struct {
	Ontology   *ontology.Ontology
	Namespaces map[string]string
	Entities   map[string]string

	nextID    uint64
	layers    *linkedhashmap.Map // layer name -> *arraystack.Stack of openMarkup, first-use order
	suspended *linkedhashmap.Map // qName -> suspension
}

func newContext(o *ontology.Ontology, namespaces, entities *header.MapResult) *Context {
	ctx := &Context{
		Ontology:   o,
		Namespaces: map[string]string{},
		Entities:   map[string]string{},
		layers:     linkedhashmap.New(),
		suspended:  linkedhashmap.New(),
	}
	if namespaces != nil {
		ctx.Namespaces = namespaces.Values
	}
	if entities != nil {
		ctx.Entities = entities.Values
	}
	return ctx
}

// newID allocates the next markup id; ids start at 0.
func (c *Context) newID() uint64 {
	id := c.nextID
	c.nextID++
	return id
}

// anyLayer reports whether markup was ever pushed in any layer.
func (c *Context) anyLayer() bool {
	return !c.layers.Empty()
}

func (c *Context) stack(layer string) *arraystack.Stack {
	if v, ok := c.layers.Get(layer); ok {
		return v.(*arraystack.Stack)
	}
	st := arraystack.New()
	c.layers.Put(layer, st)
	return st
}

// top returns the innermost open markup of layer.
func (c *Context) top(layer string) (openMarkup, bool) {
	v, ok := c.layers.Get(layer)
	if !ok {
		return openMarkup{}, false
	}
	m, ok := v.(*arraystack.Stack).Peek()
	if !ok {
		return openMarkup{}, false
	}
	return m.(openMarkup), true
}

func (c *Context) push(layer string, m openMarkup) {
	c.stack(layer).Push(m)
}

func (c *Context) pop(layer string) openMarkup {
	m, _ := c.stack(layer).Pop()
	return m.(openMarkup)
}

// isOpenIn reports whether qName is anywhere on the layer stack.
func (c *Context) isOpenIn(layer, qName string) bool {
	v, ok := c.layers.Get(layer)
	if !ok {
		return false
	}
	for _, m := range v.(*arraystack.Stack).Values() {
		if m.(openMarkup).QName == qName {
			return true
		}
	}
	return false
}

// layersWithTop lists, in first-use order, the layers whose innermost open markup is qName.
func (c *Context) layersWithTop(qName string) []string {
	var out []string
	for _, k := range c.layers.Keys() {
		layer := k.(string)
		if m, ok := c.top(layer); ok && m.QName == qName {
			out = append(out, layer)
		}
	}
	return out
}

// openCount is the number of open instances over all layers.
func (c *Context) openCount() int {
	n := 0
	for _, v := range c.layers.Values() {
		n += v.(*arraystack.Stack).Size()
	}
	return n
}

// unclosed walks every open instance layer by layer, outermost first.
func (c *Context) unclosed(fn func(layer string, m openMarkup)) {
	for _, k := range c.layers.Keys() {
		values := c.stack(k.(string)).Values() // вершина первой
		for i := len(values) - 1; i >= 0; i-- {
			fn(k.(string), values[i].(openMarkup))
		}
	}
}

func (c *Context) suspend(qName string, s suspension) {
	c.suspended.Put(qName, s)
}

// resume removes and returns the suspension recorded for qName.
func (c *Context) resume(qName string) (suspension, bool) {
	v, ok := c.suspended.Get(qName)
	if !ok {
		return suspension{}, false
	}
	c.suspended.Remove(qName)
	return v.(suspension), true
}

// unresumed walks suspended instances in suspension order.
func (c *Context) unresumed(fn func(qName string, s suspension)) {
	it := c.suspended.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().(suspension))
	}
}
