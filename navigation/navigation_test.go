package navigation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	assert.Equal(t, "", r.Last())

	r.Navigate("/login.html")
	r.Navigate("/other.html")

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, "/other.html", r.Last())
	assert.Equal(t, []string{"/login.html", "/other.html"}, r.Locations())
}

func TestRecorder_Concurrent(t *testing.T) {
	r := &Recorder{}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Navigate(DefaultLoginLocation)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, r.Count())
}

func TestFunc(t *testing.T) {
	var got string
	var n Navigator = Func(func(location string) { got = location })

	n.Navigate(DefaultLoginLocation)

	assert.Equal(t, "/login.html", got)
}
