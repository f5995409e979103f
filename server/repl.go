package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"blackjack-advisor/server/engine"
	"blackjack-advisor/server/session"
)

const shellHelp = `How to use this tool:

  hand <cards> <dealer>   set your cards and the dealer's up-card, e.g. "hand A,7 6", and get advice
  draw <card>             add a card you drew to your hand and get fresh advice
  record [cards]          record the round: your hand, the dealer card and any other cards seen
  bet [balance min max]   bet advice from the true count; blanks use the current limits
  limits <balance> <min> <max>
  status                  running count, true count, decks and cards remaining
  chart                   the basic strategy chart
  reset                   start a fresh shoe and restore the default limits
  help, quit

Cards: A,2,3,...,10,J,Q,K. Case-insensitive.`

// shell is the terminal front end: one session, one hand in progress.
type shell struct {
	s        *session.Session
	defaults session.BetLimits
	limits   [3]string
	hand     []string
	dealer   string
	out      io.Writer
	log      *slog.Logger
}

func newShell(s *session.Session, defaults session.BetLimits, out io.Writer, logger *slog.Logger) *shell {
	sh := &shell{s: s, defaults: defaults, out: out, log: logger}
	sh.resetLimits()
	return sh
}

func (sh *shell) resetLimits() {
	sh.limits = [3]string{
		fmt.Sprint(sh.defaults.Balance),
		fmt.Sprint(sh.defaults.MinBet),
		fmt.Sprint(sh.defaults.MaxBet),
	}
}

func runREPL(cfg Config, in io.Reader) error {
	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
	sh := newShell(session.New(cfg.Decks, cfg.Limits), cfg.Limits, os.Stdout, logger)
	fmt.Fprint(sh.out, pterm.DefaultHeader.Sprint("Blackjack Advisor"), "\n")
	fmt.Fprintln(sh.out, shellHelp)
	return sh.run(context.Background(), in)
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		if quit := sh.exec(ctx, sc.Text()); quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
	case "hand":
		if len(args) < 2 {
			sh.fail(engine.ErrMissingCards)
			return false
		}
		sh.hand = engine.NormalizeCards(strings.Join(args[:len(args)-1], ","))
		sh.dealer = args[len(args)-1]
		sh.advise(ctx)
	case "draw":
		if len(args) != 1 {
			sh.warn("draw takes exactly one card")
			return false
		}
		if _, err := engine.ParseRank(args[0]); err != nil {
			sh.fail(err)
			return false
		}
		sh.hand = append(sh.hand, strings.ToUpper(args[0]))
		sh.advise(ctx)
	case "record":
		st, err := sh.s.RecordCards(ctx, sh.hand, sh.dealer, engine.NormalizeCards(strings.Join(args, ",")))
		if err != nil {
			sh.log.Debug("round rejected", "err", err)
			sh.fail(err)
			return false
		}
		sh.hand, sh.dealer = nil, ""
		fmt.Fprint(sh.out, pterm.Success.Sprintln("Round recorded."))
		sh.printStatus(st)
	case "bet":
		l := sh.limits
		copy(l[:], args)
		bet, err := sh.s.RecommendBet(l[0], l[1], l[2])
		if err != nil {
			sh.fail(err)
			return false
		}
		fmt.Fprint(sh.out, pterm.Info.Sprintfln("Running Count: %v, True Count: %.2f", bet.RunningCount, bet.TrueCount))
		fmt.Fprint(sh.out, pterm.Success.Sprintfln("Recommended Bet: %v", bet.Bet))
		fmt.Fprint(sh.out, pterm.Info.Sprintfln("Decks Remaining: %.2f, Cards Remaining: %d", bet.DecksRemaining, bet.CardsRemaining))
	case "limits":
		if len(args) != 3 {
			sh.warn("limits takes balance, min bet and max bet")
			return false
		}
		// parse through the bet path so bad input is rejected now
		if _, err := sh.s.RecommendBet(args[0], args[1], args[2]); err != nil {
			sh.fail(err)
			return false
		}
		copy(sh.limits[:], args)
		fmt.Fprint(sh.out, pterm.Info.Sprintfln("Limits: balance %s, min %s, max %s", args[0], args[1], args[2]))
	case "status":
		sh.printStatus(sh.s.Status())
	case "chart":
		sh.printChart()
	case "reset":
		st := sh.s.Reset(ctx)
		sh.hand, sh.dealer = nil, ""
		sh.resetLimits()
		fmt.Fprint(sh.out, pterm.Success.Sprintln("Shoe reset. Counts cleared."))
		sh.printStatus(st)
	default:
		sh.warn(fmt.Sprintf("unknown command %q, try help", cmd))
	}
	return false
}

func (sh *shell) advise(ctx context.Context) {
	adv, err := sh.s.RecommendAction(ctx, sh.hand, sh.dealer)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprint(sh.out, pterm.Success.Sprintfln("Recommended Action: %s (%s %d vs %s)",
		adv.Name, adv.Shape, adv.Value, adv.Dealer))
}

func (sh *shell) printStatus(st engine.Status) {
	fmt.Fprint(sh.out, pterm.Info.Sprintfln("Running Count: %v, True Count: %.2f", st.RunningCount, st.TrueCount))
	fmt.Fprint(sh.out, pterm.Info.Sprintfln("Decks Remaining: %.2f, Cards Remaining: %d", st.DecksRemaining, st.CardsRemaining))
}

func (sh *shell) printChart() {
	header := []string{"hand"}
	for _, d := range engine.ChartDealers {
		if d == 1 {
			header = append(header, "A")
		} else {
			header = append(header, fmt.Sprint(d))
		}
	}
	data := pterm.TableData{header}
	for _, row := range engine.Strategy.Chart() {
		line := []string{fmt.Sprintf("%s %d", row.Shape, row.Total)}
		for _, a := range row.Actions {
			if a == "" {
				line = append(line, "-")
			} else {
				line = append(line, string(a))
			}
		}
		data = append(data, line)
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintln(sh.out, table)
}

func (sh *shell) warn(msg string) {
	fmt.Fprint(sh.out, pterm.Warning.Sprintln(msg))
}

func (sh *shell) fail(err error) {
	var se *engine.ShoeExhaustedError
	if errors.As(err, &se) {
		fmt.Fprint(sh.out, pterm.Error.Sprintfln("Tried to remove card %s not available in shoe. Check your inputs.", se.Rank))
		return
	}
	fmt.Fprint(sh.out, pterm.Error.Sprintln(err.Error()))
}
