package scan

import (
	"sync"
	"testing"
)

func TestCacheClaim(t *testing.T) {
	c := NewCache()
	if !c.Claim("https://a.com") {
		t.Fatal("first claim should win")
	}
	if c.Claim("https://a.com") {
		t.Fatal("second claim should lose")
	}
	if !c.HasScanned("https://a.com") {
		t.Error("claimed URL should be marked scanned")
	}
	if c.HasScanned("https://b.com") {
		t.Error("unclaimed URL should not be marked scanned")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheClaimConcurrent(t *testing.T) {
	c := NewCache()
	const goroutines = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Claim("https://contested.com/login") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	if won != 1 {
		t.Errorf("%d goroutines won the claim, want exactly 1", won)
	}
}

func TestCacheReset(t *testing.T) {
	c := NewCache()
	c.Claim("https://a.com")
	c.Claim("https://b.com")
	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", c.Len())
	}
	if !c.Claim("https://a.com") {
		t.Error("URL should be claimable again after Reset")
	}
}
