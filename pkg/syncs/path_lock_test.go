package syncs_test

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MacroPower/cordova-set-version/pkg/syncs"
)

func TestPathLock(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		newLock func() *syncs.PathLock
	}{
		"with constructor": {
			newLock: syncs.NewPathLock,
		},
		"zero value": {
			newLock: func() *syncs.PathLock { return &syncs.PathLock{} },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Run("lock and unlock", func(t *testing.T) {
				t.Parallel()

				pl := tc.newLock()
				unlock := pl.Lock("config.xml")
				unlock()

				unlock = pl.Lock("config.xml")
				unlock()
			})

			t.Run("independent paths do not block each other", func(t *testing.T) {
				t.Parallel()

				pl := tc.newLock()

				unlockA := pl.Lock("a/config.xml")

				done := make(chan struct{})
				go func() {
					unlockB := pl.Lock("b/config.xml")
					unlockB()
					close(done)
				}()

				<-done

				unlockA()
			})

			t.Run("equivalent spellings share a lock", func(t *testing.T) {
				t.Parallel()

				pl := tc.newLock()

				unlock := pl.Lock("app/config.xml")

				acquired := make(chan struct{})
				go func() {
					u := pl.Lock("app/./www/../config.xml")
					close(acquired)
					u()
				}()

				select {
				case <-acquired:
					t.Fatal("lock acquired while held")
				case <-time.After(20 * time.Millisecond):
				}

				unlock()
				<-acquired
			})

			t.Run("duplicates and empty paths are ignored", func(t *testing.T) {
				t.Parallel()

				pl := tc.newLock()
				unlock := pl.Lock("config.xml", "", "./config.xml")
				unlock()
			})

			t.Run("same path serializes access", func(t *testing.T) {
				t.Parallel()

				pl := tc.newLock()

				counter := 0

				const n = 100

				var wg sync.WaitGroup
				wg.Add(n)

				for i := range n {
					go func() {
						defer wg.Done()

						// Alternate the order of overlapping sets.
						paths := []string{"config.xml", "package.json"}
						if i%2 == 0 {
							paths = []string{"package.json", "config.xml"}
						}

						unlock := pl.Lock(paths...)
						defer unlock()

						counter++
					}()
				}

				wg.Wait()
				assert.Equal(t, n, counter)
			})
		})
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	abs, err := filepath.Abs("config.xml")
	assert.NoError(t, err)
	assert.Equal(t, abs, syncs.Key("./www/../config.xml"))
	assert.Equal(t, "/tmp/config.xml", syncs.Key("/tmp//config.xml"))
}
