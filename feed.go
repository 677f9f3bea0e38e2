package taxfolio

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/PaesslerAG/jsonpath"
	"golang.org/x/sync/errgroup"
)

// Feed describes where to fetch the current quote of one priced asset: a URL
// returning JSON and a jsonpath expression selecting the value in it.
type Feed struct {
	Account  string // ledger account the quote belongs to
	URL      string
	Path     string // jsonpath expression, e.g. "$.quote.last"
	Currency string // currency of the quoted value
}

// Fetch retrieves the current quote of the feed.
func (f *Feed) Fetch(client *http.Client) (Price, error) {
	var jobj any
	if err := jwget(client, f.URL, &jobj); err != nil {
		return Price{}, fmt.Errorf("error retrieving %q: %w", f.Account, err)
	}
	jval, err := jsonpath.Get(f.Path, jobj)
	if err != nil {
		return Price{}, fmt.Errorf("error parsing %q: %q %w", f.Account, f.Path, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer; keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	val, ok := jval.(float64)
	if !ok {
		// sometimes an API returns the value as a string
		sval, ok := jval.(string)
		if !ok {
			return Price{}, fmt.Errorf("cannot read value for %q: neither a float nor a string: %v", f.Account, jval)
		}
		sval = strings.ReplaceAll(sval, ",", ".")
		sval = strings.ReplaceAll(sval, " ", "")
		val, err = strconv.ParseFloat(sval, 64)
		if err != nil {
			return Price{}, fmt.Errorf("cannot read value for %q: invalid string %q: %w", f.Account, sval, err)
		}
	}
	if val == 0 {
		return Price{}, fmt.Errorf("empty quote for %q: no value to return", f.Account)
	}
	return P(val, f.Currency), nil
}

// FetchPrices fetches every feed concurrently and records the quotes in the
// ledger's price list under today's date. Failing feeds are reported but do
// not prevent the others from updating.
func FetchPrices(l *Ledger, feeds []Feed) error {
	client := daily()
	today := Today()

	var mu sync.Mutex
	var failed []string
	var g errgroup.Group
	g.SetLimit(4)
	for _, f := range feeds {
		g.Go(func() error {
			p, err := f.Fetch(client)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("feed %q: %v", f.Account, err)
				failed = append(failed, f.Account)
				return nil
			}
			l.Prices().Add(f.Account, today, p)
			return nil
		})
	}
	g.Wait()
	if len(failed) > 0 {
		sort.Strings(failed)
		return fmt.Errorf("could not fetch %s", strings.Join(failed, ", "))
	}
	return nil
}

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// diskCache uses a unique key per day, so the local copy expires daily.
	key := fmt.Sprintf("%s %s %s", Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to the disk cache.
func (c *diskCache) put(key string, resp *http.Response) error {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client caching every response until the end of the day.
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}
