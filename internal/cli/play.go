package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/palavramestre/internal/game"
	"github.com/robalobadob/palavramestre/internal/rng"
	"github.com/robalobadob/palavramestre/internal/words"
)

var (
	playDifficulty string
	playSeed       int64
)

func init() {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play in the terminal. Type a five-letter word and press Enter.

  ?       reveal one letter (once per game)
  !new    start a new game
  !next   switch difficulty (easy, medium, hard) and start over
  !quit   leave`,
		RunE: runPlayCmd,
	}
	cmd.Flags().StringVar(&playDifficulty, "difficulty", "", "easy, medium or hard (default: $DEFAULT_DIFFICULTY)")
	cmd.Flags().Int64Var(&playSeed, "seed", 0, "Seed for repeatable games (0 = random)")

	RootCmd.AddCommand(cmd)
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	name := cfg.DefaultDifficulty
	if playDifficulty != "" {
		name = playDifficulty
	}
	diff, err := game.ParseDifficulty(name)
	if err != nil {
		return err
	}
	r := rng.Crypto()
	if playSeed != 0 {
		r = rng.Seeded(playSeed)
	}
	list := loadWords(words.WithRand(r))
	log.Debug().Int("words", list.Len()).Stringer("difficulty", diff).Msg("word list loaded")

	return runPlay(cmd.InOrStdin(), cmd.OutOrStdout(), list, diff, r)
}

// player drives one terminal session at a time.
type player struct {
	out  io.Writer
	src  game.WordSource
	rand rng.Source
	diff game.Difficulty
	sess *game.Session
}

// runPlay reads commands and attempts from in until EOF or !quit.
func runPlay(in io.Reader, out io.Writer, src game.WordSource, d game.Difficulty, r rng.Source) error {
	p := &player{out: out, src: src, rand: r, diff: d}
	if err := p.start(); err != nil {
		return err
	}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		var err error
		switch line := strings.TrimSpace(sc.Text()); line {
		case "":
		case "!quit":
			return nil
		case "!new":
			err = p.start()
		case "!next":
			p.diff = p.diff.Next()
			err = p.start()
		case "?":
			err = p.hint()
		default:
			err = p.guess(line)
		}
		if err != nil {
			return err
		}
	}
	return sc.Err()
}

func (p *player) start() error {
	sess, err := game.New(p.src, p.diff, game.WithRand(p.rand))
	if err != nil {
		return err
	}
	p.sess = sess
	log.Debug().Str("gameId", sess.ID).Msg("session started")
	fmt.Fprintf(p.out, "Novo jogo (%s): %d tentativas.\n", p.diff, p.diff.MaxAttempts())
	return nil
}

func (p *player) guess(line string) error {
	res, err := p.sess.SubmitWord(words.Normalize(line))
	switch {
	case errors.Is(err, game.ErrIncompleteAttempt):
		fmt.Fprintln(p.out, "Palavra incompleta.")
		return nil
	case errors.Is(err, game.ErrUnknownWord):
		fmt.Fprintln(p.out, "Palavra não encontrada.")
		return nil
	case errors.Is(err, game.ErrGameOver):
		fmt.Fprintln(p.out, "Jogo encerrado. Digite !new para jogar de novo.")
		return nil
	case err != nil:
		return err
	}

	rows := p.sess.Rows()
	fmt.Fprintln(p.out, renderRow(rows[p.sess.Attempts()-1].Letters, res.Marks))

	switch res.State {
	case game.StateWon:
		fmt.Fprintf(p.out, "Acertou em %d!\n", p.sess.Attempts())
	case game.StateLost:
		fmt.Fprintf(p.out, "Fim de jogo. A palavra era %s.\n", strings.ToUpper(p.sess.Snapshot().Secret))
	default:
		return nil
	}
	if def := p.sess.Snapshot().Definition; def != "" {
		fmt.Fprintln(p.out, def)
	}
	fmt.Fprintln(p.out, "Digite !new para jogar de novo.")
	return nil
}

func (p *player) hint() error {
	if p.sess.State().Terminal() {
		fmt.Fprintln(p.out, "Jogo encerrado. Digite !new para jogar de novo.")
		return nil
	}
	letter, ok, err := p.sess.RequestHint()
	switch {
	case errors.Is(err, game.ErrHintUnavailable):
		fmt.Fprintln(p.out, "Dica já usada.")
	case err != nil:
		return err
	case !ok:
		fmt.Fprintln(p.out, "Nenhuma dica disponível.")
	default:
		fmt.Fprintf(p.out, "Dica: a palavra tem a letra %c.\n", unicode.ToUpper(letter))
	}
	return nil
}

// renderRow prints [X] for correct, (x) for present and a bare x for absent.
func renderRow(letters []rune, marks []game.Mark) string {
	var b strings.Builder
	for i, r := range letters {
		switch marks[i] {
		case game.MarkCorrect:
			fmt.Fprintf(&b, "[%c]", unicode.ToUpper(r))
		case game.MarkPresent:
			fmt.Fprintf(&b, "(%c)", r)
		default:
			fmt.Fprintf(&b, " %c ", r)
		}
	}
	return b.String()
}
