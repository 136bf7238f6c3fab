// Package fetch collects bulk source files: it scrapes the listing page for
// zip links, downloads and extracts them, and repairs the raw concatenated
// XML into a single well-formed document.
package fetch

import (
	"archive/zip"
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// File is one zip entry of the bulk-data listing.
type File struct {
	Name string
	URL  string
	Size int64
	Date string
}

// Listing scrapes the bulk-data index page. Each table row holding a .zip
// link yields one File; size and date come from the row's remaining cells.
func Listing(ctx context.Context, client *http.Client, listURL string) ([]File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing %s: HTTP %d", listURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(listURL)
	if err != nil {
		return nil, err
	}

	var files []File
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if f, ok := rowFile(n, base); ok {
				files = append(files, f)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return files, nil
}

// rowFile reads one table row: the first .zip anchor names the file, the
// first all-digit cell is the size, the last non-link cell is the date.
func rowFile(tr *html.Node, base *url.URL) (File, bool) {
	var f File
	var cells []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && f.URL == "" {
			href := attr(n, "href")
			if strings.HasSuffix(href, ".zip") {
				if u, err := url.Parse(href); err == nil {
					f.URL = base.ResolveReference(u).String()
					f.Name = filepath.Base(u.Path)
				}
			}
			return
		}
		if n.Type == html.ElementNode && n.Data == "td" {
			if t := strings.TrimSpace(nodeText(n)); t != "" && !strings.HasSuffix(t, ".zip") {
				cells = append(cells, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tr)
	if f.URL == "" {
		return File{}, false
	}
	for _, c := range cells {
		if v, err := strconv.ParseInt(c, 10, 64); err == nil && f.Size == 0 {
			f.Size = v
			continue
		}
		f.Date = c
	}
	return f, true
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Download streams one zip into dir and returns its local path.
func Download(ctx context.Context, client *http.Client, fileURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: HTTP %d", fileURL, resp.StatusCode)
	}

	u, err := url.Parse(fileURL)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(u.Path))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Extract unpacks every .xml entry of a zip into dir, flattening entry paths.
func Extract(zipPath, dir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var paths []string
	for _, entry := range r.File {
		if !strings.HasSuffix(strings.ToLower(entry.Name), ".xml") {
			continue
		}
		path := filepath.Join(dir, filepath.Base(entry.Name))
		if err := extractEntry(entry, path); err != nil {
			return nil, fmt.Errorf("extract %s: %w", entry.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func extractEntry(entry *zip.File, path string) error {
	in, err := entry.Open()
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

const repairRoot = "<root>"

// Repair rewrites a raw bulk file, a concatenation of standalone XML
// documents, into one well-formed document: a single prolog, a synthetic
// root element, interior prolog and DOCTYPE lines dropped. Already-repaired
// files are left untouched.
func Repair(path string) error {
	repaired, err := isRepaired(path)
	if err != nil || repaired {
		return err
	}

	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)

	fail := func(err error) error {
		out.Close()
		os.Remove(tmp)
		return err
	}

	if _, err := w.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" + repairRoot + "\n"); err != nil {
		return fail(err)
	}
	r := bufio.NewReader(in)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			trimmed := strings.TrimSpace(line)
			if !strings.HasPrefix(trimmed, "<?xml") && !strings.HasPrefix(trimmed, "<!DOCTYPE") {
				if _, werr := w.WriteString(line); werr != nil {
					return fail(werr)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(err)
		}
	}
	if _, err := w.WriteString("\n</root>\n"); err != nil {
		return fail(err)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// isRepaired checks for the synthetic root on the file's second line.
func isRepaired(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for i := 0; i < 2; i++ {
		line, err := r.ReadString('\n')
		if strings.TrimSpace(line) == repairRoot {
			return true, nil
		}
		if err != nil {
			return false, nil
		}
	}
	return false, nil
}
