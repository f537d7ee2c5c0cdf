package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/thereceipt/ticket-engine/internal/config"
	"github.com/thereceipt/ticket-engine/internal/style"
	"github.com/thereceipt/ticket-engine/pkg/ticketformat"
)

// renderCommand renders a purchase file locally
func renderCommand(args []string, opts options, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("render expects one purchase file")
	}

	p, err := ticketformat.ParseFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	asm := cfg.Assembler(logger)

	output := opts.output
	if opts.png > 0 {
		if output == "" {
			output = fmt.Sprintf("%s-page%d.png", p.Reference, opts.png)
		}
		data, err := asm.Preview(p.Tickets, *p, opts.png-1)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		fmt.Fprintf(stdout, "%s page %d of %d → %s\n", SuccessStyle.Render("✓"), opts.png, len(p.Tickets), output)
		return nil
	}

	if output == "" {
		output = "tickets-" + p.Reference + ".pdf"
	}
	doc, err := asm.Assemble(p.Tickets, *p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, doc.Bytes, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	fmt.Fprintf(stdout, "%s %d page(s) → %s\n", SuccessStyle.Render("✓"), doc.Pages, output)
	fmt.Fprintf(stdout, "%s %s\n", LabelStyle.Render("Document ID:"), MutedStyle.Render(doc.ID.String()))
	return nil
}

// remoteCommand posts a purchase file to the server and saves the PDF
func remoteCommand(args []string, opts options, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("remote expects one purchase file")
	}

	p, err := ticketformat.ParseFile(args[0])
	if err != nil {
		return err
	}
	body, err := p.ToJSON()
	if err != nil {
		return err
	}

	url := strings.TrimSuffix(opts.serverURL, "/") + "/tickets/pdf"
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := serverError(resp.StatusCode, data); err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = "tickets-" + p.Reference + ".pdf"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	pages, _ := strconv.Atoi(resp.Header.Get("X-Page-Count"))
	fmt.Fprintf(stdout, "%s %d page(s) → %s %s\n", SuccessStyle.Render("✓"), pages, output,
		MutedStyle.Render("(cache "+strings.ToLower(resp.Header.Get("X-Cache"))+")"))
	return nil
}

// serverError turns a non-200 response into an error carrying the API's
// error message
func serverError(status int, body []byte) error {
	if status == http.StatusOK {
		return nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("server: %s", apiErr.Error)
	}
	return fmt.Errorf("server: HTTP %d", status)
}

// documentsCommand lists the server's rendered document index
func documentsCommand(opts options, stdout io.Writer) error {
	url := strings.TrimSuffix(opts.serverURL, "/") + "/documents"
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := serverError(resp.StatusCode, data); err != nil {
		return err
	}

	var result struct {
		Documents []struct {
			Reference  string    `json:"reference"`
			Path       string    `json:"path"`
			Pages      int       `json:"pages"`
			RenderedAt time.Time `json:"rendered_at"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Fprintln(stdout, TitleStyle.Render("Documents:"))
	if len(result.Documents) == 0 {
		fmt.Fprintln(stdout, MutedStyle.Render("  none"))
	}
	for _, d := range result.Documents {
		fmt.Fprintf(stdout, "  %s %d page(s)  %s  %s\n", LabelStyle.Render(d.Reference), d.Pages, d.Path,
			MutedStyle.Render(d.RenderedAt.Format(time.RFC3339)))
	}
	return nil
}

// stylesCommand prints the class catalog with color swatches
func stylesCommand(stdout io.Writer) error {
	fmt.Fprintln(stdout, TitleStyle.Render("Ticket classes:"))
	for _, class := range style.Classes() {
		e := style.Resolve(class)
		fmt.Fprintf(stdout, "  %s %s%s %-18s %-5s %s\n",
			LabelStyle.Render(class),
			swatch(e.GradientStart.Hex()), swatch(e.GradientEnd.Hex()),
			e.DisplayName, e.PriceLabel, MutedStyle.Render(e.UnitLabel))
	}
	fmt.Fprintf(stdout, "%s %s\n", MutedStyle.Render("Unknown classes render as"), style.DefaultClass)
	return nil
}
