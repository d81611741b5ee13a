package nexus

import (
	"bufio"
	"io"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tuftsbcb/phylotree/config"
	"github.com/tuftsbcb/phylotree/newick"
	"github.com/tuftsbcb/phylotree/tree"
)

// Result bundles the trees a Nexus parse produced with the taxon
// table they were resolved against, so the two can never be separated
// by accident. Exactly one of Trees (eager mode) or Iterator (lazy
// mode) is set.
type Result struct {
	Trees    []tree.Tree
	Iterator *TreeIterator
	Table    *tree.TaxonTable
}

// ParseReader parses a Nexus stream, recognizing TAXA and TREES
// blocks and skipping any other block to its END;. See config.Config
// for the filtering and representation options.
func ParseReader(r io.Reader, cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seeker, _ := r.(io.ReadSeeker)
	d := &driver{
		sc:     newScanner(bufio.NewReader(r)),
		cfg:    cfg,
		table:  tree.NewTaxonTable(64),
		logger: cfg.LoggerOrDefault(),
		seeker: seeker,
	}

	if err := d.expectHeader(); err != nil {
		return nil, err
	}

	for {
		t, err := d.nextToken()
		if err != nil {
			return nil, err
		}
		if t.kind == tokEOF {
			return &Result{Trees: []tree.Tree{}, Table: d.table}, nil
		}
		if t.kind != tokWord || !strings.EqualFold(t.val, "BEGIN") {
			return nil, errMalformedBlock("", t.pos, "expected BEGIN, found %q", t.val)
		}
		nameTok, err := d.nextToken()
		if err != nil {
			return nil, err
		}
		if err := d.expectSemicolon(); err != nil {
			return nil, err
		}
		blockName := strings.ToUpper(nameTok.val)

		switch blockName {
		case "TAXA":
			d.taxaSeen = true
			if err := d.parseTaxaBlock(); err != nil {
				return nil, err
			}
		case "TREES":
			if err := d.enterTreesBlock(); err != nil {
				return nil, err
			}
			if cfg.Mode == config.Lazy {
				return &Result{Iterator: newTreeIterator(d), Table: d.table}, nil
			}
			trees, err := d.collectAllTrees()
			if err != nil {
				return nil, err
			}
			return &Result{Trees: trees, Table: d.table}, nil
		default:
			if err := d.skipUnknownBlock(blockName); err != nil {
				return nil, err
			}
		}
	}
}

// driver holds all state for one Nexus parse: the shared taxon
// table, the in-force translate map (nil until a TRANSLATE command is
// seen), and the burn-in/sampling filter applied to the TREES block's
// tree declarations.
type driver struct {
	sc      *scanner
	cfg     config.Config
	table   *tree.TaxonTable
	logger  *logrus.Logger
	seeker  io.ReadSeeker
	pending *tok

	taxaSeen  bool
	translate map[string]tree.TaxonId

	filter   filterState
	blockEnd bool // set once END; has been consumed inside TREES
}

func (d *driver) nextToken() (tok, error) {
	if d.pending != nil {
		t := *d.pending
		d.pending = nil
		return t, nil
	}
	return d.sc.next()
}

func (d *driver) pushBack(t tok) {
	d.pending = &t
}

func (d *driver) expectHeader() error {
	t, err := d.nextToken()
	if err != nil {
		return err
	}
	if t.kind != tokWord || !strings.EqualFold(t.val, "#NEXUS") {
		return errMissingHeader(t.pos)
	}
	return nil
}

func (d *driver) expectSemicolon() error {
	t, err := d.nextToken()
	if err != nil {
		return err
	}
	if t.kind != tokSemicolon {
		return errMalformedBlock("", t.pos, "expected ';'")
	}
	return nil
}

func (d *driver) skipUnknownBlock(name string) error {
	for {
		t, err := d.nextToken()
		if err != nil {
			return err
		}
		if t.kind == tokEOF {
			return errMalformedBlock(name, t.pos, "unexpected end of input, expected END;")
		}
		if t.kind == tokWord && strings.EqualFold(t.val, "END") {
			return d.expectSemicolon()
		}
	}
}

func (d *driver) parseTaxaBlock() error {
	for {
		t, err := d.nextToken()
		if err != nil {
			return err
		}
		if t.kind == tokEOF {
			return errMalformedBlock("TAXA", t.pos, "unexpected end of input")
		}
		if t.kind != tokWord {
			return errMalformedBlock("TAXA", t.pos, "expected a command keyword")
		}
		switch strings.ToUpper(t.val) {
		case "END":
			return d.expectSemicolon()
		case "TAXLABELS":
			if err := d.parseTaxlabels(); err != nil {
				return err
			}
		default:
			if err := d.sc.skipToSemicolon(); err != nil {
				return err
			}
		}
	}
}

func (d *driver) parseTaxlabels() error {
	for {
		t, err := d.nextToken()
		if err != nil {
			return err
		}
		if t.kind == tokSemicolon {
			return nil
		}
		if t.kind != tokWord {
			return errMalformedBlock("TAXA", t.pos, "expected a taxon name")
		}
		if _, exists := d.table.Get(t.val); exists {
			return errDuplicateTaxon(t.val, t.pos)
		}
		d.table.Intern(t.val)
	}
}

// enterTreesBlock consumes TRANSLATE (if present) and any commands
// preceding the first "TREE NAME = ..." declaration, then arms the
// filter pipeline. It stops with the first declaration keyword pushed
// back, ready for collectAllTrees or the lazy TreeIterator to take
// over.
func (d *driver) enterTreesBlock() error {
	for {
		t, err := d.nextToken()
		if err != nil {
			return err
		}
		if t.kind == tokEOF {
			return errMalformedBlock("TREES", t.pos, "unexpected end of input")
		}
		if t.kind != tokWord {
			return errMalformedBlock("TREES", t.pos, "expected a command keyword")
		}
		switch strings.ToUpper(t.val) {
		case "TRANSLATE":
			if err := d.parseTranslate(); err != nil {
				return err
			}
		case "END":
			if err := d.expectSemicolon(); err != nil {
				return err
			}
			d.blockEnd = true
			d.filter = filterState{}
			return nil
		case "TREE", "UTREE", "RTREE":
			d.pushBack(t)
			return d.armFilter()
		default:
			if d.cfg.StrictTranslate {
				return errUnknownCommand("TREES", t.val, t.pos)
			}
			d.logger.Warnf("nexus: skipping unrecognized TREES command %q", t.val)
			if err := d.sc.skipToSemicolon(); err != nil {
				return err
			}
		}
	}
}

func (d *driver) parseTranslate() error {
	d.translate = make(map[string]tree.TaxonId)
	for {
		idTok, err := d.nextToken()
		if err != nil {
			return err
		}
		if idTok.kind == tokSemicolon {
			return nil
		}
		if idTok.kind != tokWord {
			return errMalformedBlock("TREES", idTok.pos, "expected a translate local id")
		}
		nameTok, err := d.nextToken()
		if err != nil {
			return err
		}
		if nameTok.kind != tokWord {
			return errMalformedBlock("TREES", nameTok.pos, "expected a taxon name")
		}
		if d.taxaSeen {
			if _, exists := d.table.Get(nameTok.val); !exists {
				if d.cfg.StrictTranslate {
					return &TranslateError{LocalID: idTok.val, Name: nameTok.val, Pos: nameTok.pos}
				}
				d.logger.Warnf("nexus: TRANSLATE entry %q -> %q names a taxon absent from TAXA; adding it", idTok.val, nameTok.val)
			}
		}
		d.translate[idTok.val] = d.table.Intern(nameTok.val)

		sep, err := d.nextToken()
		if err != nil {
			return err
		}
		if sep.kind == tokSemicolon {
			return nil
		}
		if sep.kind != tokComma {
			d.pushBack(sep)
		}
	}
}

// armFilter computes the burn-in drop count (via BurninTotalHint or a
// seek-based pre-pass) and initializes the filter pipeline, once we
// are positioned right at the first tree declaration.
func (d *driver) armFilter() error {
	burninCount := 0
	if d.cfg.BurninFraction > 0 {
		total := d.cfg.BurninTotalHint
		if total == 0 {
			if d.seeker == nil {
				return config.ErrUnknownTotal
			}
			counted, err := d.prepassTreeCount()
			if err != nil {
				return err
			}
			total = counted
		}
		burninCount = int(math.Floor(d.cfg.BurninFraction * float64(total)))
	}
	d.filter = filterState{
		skipFirst:   d.cfg.SkipFirst,
		burninCount: burninCount,
		sampleEvery: d.cfg.SampleEvery,
		maxTrees:    d.cfg.MaxTrees,
	}
	return nil
}

// prepassTreeCount counts TREE/UTREE/RTREE declarations from the
// current position to the TREES block's END;, then rewinds the
// underlying seeker so parsing resumes exactly where it left off.
//
// By the time this runs, the first TREE/UTREE/RTREE keyword has
// already been read off the scanner and is sitting in d.pending
// (enterTreesBlock pushes it back at the driver level, not the
// scanner level, so that keyword's bytes are not re-readable from
// d.sc). resumePos is the position parsing should continue from:
// right after that keyword, matching what d.pending already holds.
// countPos rewinds further, to before the keyword, so the counting
// loop below sees it too instead of undercounting by one.
func (d *driver) prepassTreeCount() (int, error) {
	rawPos, err := d.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	resumePos := rawPos - int64(d.sc.br.Buffered())

	countPos := resumePos
	if d.pending != nil {
		countPos -= int64(d.sc.pos - d.pending.pos)
	}

	if _, err := d.seeker.Seek(countPos, io.SeekStart); err != nil {
		return 0, err
	}
	tmp := newScanner(bufio.NewReader(d.seeker))
	count := 0
countLoop:
	for {
		t, err := tmp.next()
		if err != nil {
			return 0, err
		}
		switch t.kind {
		case tokEOF:
			break countLoop
		case tokWord:
			switch strings.ToUpper(t.val) {
			case "TREE", "UTREE", "RTREE":
				count++
			case "END":
				break countLoop
			}
		}
	}

	if _, err := d.seeker.Seek(resumePos, io.SeekStart); err != nil {
		return 0, err
	}
	d.sc = newScanner(bufio.NewReader(d.seeker))
	return count, nil
}

// filterState implements the skip_first -> burnin_fraction ->
// sample_every -> max_trees pipeline over the raw stream of tree
// declarations.
type filterState struct {
	skipFirst   int
	burninCount int
	sampleEvery int
	maxTrees    int

	rawIndex  int
	keptCount int
}

// decide reports whether the next declaration should be kept, and
// whether the caller should stop reading further declarations
// entirely (max_trees reached).
func (f *filterState) decide() (keep, stop bool) {
	if f.maxTrees > 0 && f.keptCount >= f.maxTrees {
		return false, true
	}
	idx := f.rawIndex
	f.rawIndex++
	if idx < f.skipFirst+f.burninCount {
		return false, false
	}
	survivor := idx - (f.skipFirst + f.burninCount)
	every := f.sampleEvery
	if every <= 0 {
		every = 1
	}
	if survivor%every != 0 {
		return false, false
	}
	f.keptCount++
	return true, false
}

// resolver returns the leaf-label resolver a Newick body is parsed
// with: through the translate map if one is in force, directly into
// the taxon table otherwise.
func (d *driver) resolver() newick.Resolver {
	return func(label string) (tree.TaxonId, error) {
		if d.translate == nil {
			return d.table.Intern(label), nil
		}
		if id, ok := d.translate[label]; ok {
			return id, nil
		}
		if d.cfg.StrictTranslate {
			return 0, &TranslateError{LocalID: label, Name: label}
		}
		d.logger.Warnf("nexus: tree body references local id %q with no TRANSLATE entry; interning as a taxon name", label)
		return d.table.Intern(label), nil
	}
}

// nextDeclaration returns the next kept tree, parsing and discarding
// non-kept declarations along the way without materializing them. ok
// is false once the TREES block's END; has been reached.
func (d *driver) nextDeclaration() (t tree.Tree, ok bool, err error) {
	if d.blockEnd {
		return nil, false, nil
	}
	for {
		tok, err := d.nextToken()
		if err != nil {
			return nil, false, err
		}
		if tok.kind == tokEOF {
			return nil, false, errMalformedBlock("TREES", tok.pos, "unexpected end of input")
		}
		if tok.kind == tokWord && strings.EqualFold(tok.val, "END") {
			if err := d.expectSemicolon(); err != nil {
				return nil, false, err
			}
			d.blockEnd = true
			return nil, false, nil
		}
		if tok.kind != tokWord {
			return nil, false, errMalformedBlock("TREES", tok.pos, "expected a tree declaration")
		}
		switch strings.ToUpper(tok.val) {
		case "TREE", "UTREE", "RTREE":
			// fall through to declaration handling below
		default:
			return nil, false, errMalformedBlock("TREES", tok.pos, "expected TREE, UTREE, RTREE or END")
		}

		if _, err := d.nextToken(); err != nil { // tree name, discarded
			return nil, false, err
		}
		eq, err := d.nextToken()
		if err != nil {
			return nil, false, err
		}
		if eq.kind != tokEquals {
			return nil, false, errMalformedBlock("TREES", eq.pos, "expected '='")
		}
		body, err := d.sc.readNewickBody()
		if err != nil {
			return nil, false, err
		}

		keep, stop := d.filter.decide()
		if !keep {
			if stop {
				d.blockEnd = true
				return nil, false, nil
			}
			continue
		}

		builder := newick.NewBuilder(d.cfg, d.table.Len())
		built, err := newick.ParseTreeWithBuilder(strings.NewReader(body), builder, d.resolver())
		if err != nil {
			return nil, false, err
		}
		return built, true, nil
	}
}

func (d *driver) collectAllTrees() ([]tree.Tree, error) {
	var trees []tree.Tree
	for {
		t, ok, err := d.nextDeclaration()
		if err != nil {
			return nil, err
		}
		if !ok {
			return trees, nil
		}
		trees = append(trees, t)
	}
}
