package memstore_test

import (
	"testing"

	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/credentials/memstore"
	"github.com/jrsteele09/go-admin-session/credentials/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) credentials.Store {
		return memstore.New()
	})
}
