package lyrics

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultDiagQuery = "Adele Hello"

// Check is one line of a diagnostics report.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

type Report struct {
	Checks  []Check
	Elapsed time.Duration
}

func (r *Report) add(name string, ok bool, format string, args ...any) {
	r.Checks = append(r.Checks, Check{Name: name, OK: ok, Detail: fmt.Sprintf(format, args...)})
}

// Summary renders the report as plain text lines.
func (r *Report) Summary() string {
	var sb strings.Builder
	for _, c := range r.Checks {
		mark := "OK "
		if !c.OK {
			mark = "ERR"
		}
		fmt.Fprintf(&sb, "[%s] %s -> %s\n", mark, c.Name, c.Detail)
	}
	fmt.Fprintf(&sb, "took %s", r.Elapsed.Round(time.Millisecond))
	return sb.String()
}

// Diagnose checks DNS resolution and HTTP reachability of the Genius API and
// site, then runs an authenticated search when a token is configured.
func (g *Genius) Diagnose(ctx context.Context, query string) *Report {
	start := time.Now()
	report := &Report{}

	for _, base := range []string{g.APIBase, g.WebBase} {
		host := hostOf(base)
		addrs, err := net.DefaultResolver.LookupHost(ctx, host)
		if err != nil {
			report.add("dns "+host, false, "%v", err)
			continue
		}
		report.add("dns "+host, true, "%d addresses", len(addrs))
	}

	for _, base := range []string{g.APIBase, g.WebBase} {
		status, err := g.head(ctx, strings.TrimRight(base, "/")+"/")
		name := "HEAD " + hostOf(base)
		if err != nil {
			report.add(name, false, "%v", err)
			continue
		}
		report.add(name, status < 500, "%d", status)
	}

	if g.token == "" {
		report.add("api search", false, "skipped (no GENIUS_API_TOKEN)")
	} else {
		if strings.TrimSpace(query) == "" {
			query = defaultDiagQuery
		}
		hit, err := g.search(ctx, query)
		switch {
		case err != nil:
			report.add("api search", false, "%v", err)
		default:
			report.add("api search", true, "%s - %s", hit.Title, hit.PrimaryArtist.Name)
		}
	}

	report.Elapsed = time.Since(start)
	log.Printf("[INFO] [LyricsDiag] %s", strings.ReplaceAll(report.Summary(), "\n", "; "))
	return report
}

func (g *Genius) head(ctx context.Context, target string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Hostname() == "" {
		return base
	}
	return u.Hostname()
}
