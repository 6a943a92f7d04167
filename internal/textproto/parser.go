// Package textproto implements the line-oriented text command front-end
// (spec.md §6.1): LIMIT/MARKET/CANCEL/PRINT commands over an io.Reader,
// results written to an io.Writer. Grounded on the original CSV command
// parser, translated from an istream/ostream pair to io.Reader/io.Writer.
package textproto

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"matchcore/domain"
	"matchcore/internal/engine"
)

// Processor drives one engine from a stream of text commands.
type Processor struct {
	engine *engine.Engine
}

// New creates a Processor over eng.
func New(eng *engine.Engine) *Processor {
	return &Processor{engine: eng}
}

// ProcessStream reads newline-delimited commands from r and writes their
// results (trade lines, acks, errors, or book snapshots) to w, one command
// per call to ProcessLine.
func (p *Processor) ProcessStream(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.ProcessLine(scanner.Text(), w)
	}
}

// ProcessLine parses and executes a single command line. Blank lines and
// lines starting with '#' are ignored.
func (p *Processor) ProcessLine(line string, w io.Writer) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}

	tokens := strings.Split(trimmed, ",")
	cmd := strings.ToUpper(strings.TrimSpace(tokens[0]))

	switch cmd {
	case "PRINT":
		p.printBook(w)
	case "CANCEL":
		p.processCancel(tokens, w)
	case "LIMIT", "MARKET":
		p.processOrder(cmd, tokens, w)
	default:
		fmt.Fprintf(w, "ERROR: unknown command '%s'\n", cmd)
	}
}

// processCancel takes the order id from the fifth CSV field, as in
// CANCEL,,,,<id>; a line with fewer than five fields is rejected rather than
// guessed at. The three side/price/qty placeholder fields are not inspected,
// and fields after the fifth are ignored.
func (p *Processor) processCancel(tokens []string, w io.Writer) {
	if len(tokens) < 5 {
		fmt.Fprintln(w, "ERROR: CANCEL requires order_id as 5th field")
		return
	}
	id, err := strconv.ParseUint(strings.TrimSpace(tokens[4]), 10, 64)
	if err != nil {
		fmt.Fprintf(w, "ERROR: invalid order_id '%s'\n", tokens[4])
		return
	}
	if p.engine.CancelOrder(id) {
		fmt.Fprintf(w, "CANCELLED %d\n", id)
	} else {
		fmt.Fprintf(w, "CANCEL_REJECT %d (not found)\n", id)
	}
}

func (p *Processor) processOrder(cmd string, tokens []string, w io.Writer) {
	if len(tokens) < 4 {
		fmt.Fprintln(w, "ERROR: expected TYPE,SIDE,PRICE,QTY")
		return
	}

	var typ domain.Type
	if cmd == "LIMIT" {
		typ = domain.Limit
	} else {
		typ = domain.Market
	}

	sideStr := strings.ToUpper(strings.TrimSpace(tokens[1]))
	var side domain.Side
	switch sideStr {
	case "BUY", "B":
		side = domain.Buy
	case "SELL", "S":
		side = domain.Sell
	default:
		fmt.Fprintf(w, "ERROR: unknown side '%s'\n", sideStr)
		return
	}

	var price int64
	if typ == domain.Limit {
		priceStr := strings.TrimSpace(tokens[2])
		if priceStr == "" {
			fmt.Fprintln(w, "ERROR: LIMIT order requires a price")
			return
		}
		parsed, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			fmt.Fprintf(w, "ERROR: invalid price '%s'\n", priceStr)
			return
		}
		price = priceFromFloat(parsed)
	}

	qty64, err := strconv.ParseUint(strings.TrimSpace(tokens[3]), 10, 32)
	if err != nil {
		fmt.Fprintf(w, "ERROR: invalid quantity '%s'\n", tokens[3])
		return
	}
	if qty64 == 0 {
		fmt.Fprintln(w, "ERROR: quantity must be > 0")
		return
	}

	_, trades := p.engine.ProcessOrder(side, typ, price, uint32(qty64))
	printTrades(trades, w)
}

func (p *Processor) printBook(w io.Writer) {
	bids, asks := p.engine.Depth(maxPrintLevels)

	fmt.Fprintln(w, "=== ORDER BOOK ===")
	fmt.Fprintln(w, "--- ASKS (highest first) ---")
	for i := len(asks) - 1; i >= 0; i-- {
		a := asks[i]
		fmt.Fprintf(w, "  %10s  |  %8d  (%d orders)\n", priceToString(a.Price), a.Quantity, a.Orders)
	}
	fmt.Fprintln(w, "--- SPREAD ---")
	fmt.Fprintln(w, "--- BIDS (highest first) ---")
	for _, b := range bids {
		fmt.Fprintf(w, "  %10s  |  %8d  (%d orders)\n", priceToString(b.Price), b.Quantity, b.Orders)
	}
	fmt.Fprintln(w, "==================")
}

// maxPrintLevels bounds the PRINT command's book dump; it mirrors a full
// scan for any book the text front-end would reasonably see in practice.
const maxPrintLevels = 1 << 16

func printTrades(trades []domain.Trade, w io.Writer) {
	for _, t := range trades {
		fmt.Fprintf(w, "TRADE %d %d %s %d\n", t.BuyerID, t.SellerID, priceToString(t.Price), t.Quantity)
	}
}

func priceFromFloat(p float64) int64 {
	if p < 0 {
		return int64(p*domain.PriceScale - 0.5)
	}
	return int64(p*domain.PriceScale + 0.5)
}

func priceToString(p int64) string {
	whole := p / domain.PriceScale
	frac := p % domain.PriceScale
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}
