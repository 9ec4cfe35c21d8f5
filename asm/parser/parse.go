package parser

import (
	"errors"
	"fmt"
	"strings"

	"go.creack.net/chip8/op"
)

// Node is an element of the parsed source: label, instruction or directive.
type Node interface {
	Encode(p *Program) ([]byte, error)
	PrettyPrint(nodes []Node) string
}

// Parser structure
type Parser struct {
	lexer     *lexer
	currToken item
	peekToken item

	Nodes  []Node
	labels map[string]int // Label name to definition line.
}

// NewParser creates a new parser
func NewParser(name, input string) *Parser {
	p := &Parser{
		lexer:  NewLexer(name, input),
		labels: map[string]int{},
	}
	// Preload the next token.
	p.nextToken()
	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.currToken = p.peekToken
	p.peekToken = p.lexer.nextItem()
}

func (p *Parser) parseLabel() error {
	name := p.currToken.val
	if isReserved(name) {
		return fmt.Errorf("reserved name %q used as label", name)
	}
	if line, ok := p.labels[name]; ok {
		return fmt.Errorf("duplicate label %q, first defined line %d", name, line)
	}
	p.labels[name] = p.currToken.line
	p.Nodes = append(p.Nodes, &Label{Name: name, Line: p.currToken.line})
	return nil
}

// parseOperand parses the operand starting at the current token.
func (p *Parser) parseOperand() (*Parameter, error) {
	tok := p.currToken
	switch tok.typ {
	case itemLeftBracket:
		p.nextToken()
		if p.currToken.typ != itemIdentifier || strings.ToUpper(p.currToken.val) != "I" {
			return nil, fmt.Errorf("expected I after [, got %s", p.currToken)
		}
		p.nextToken()
		if p.currToken.typ != itemRightBracket {
			return nil, fmt.Errorf("expected ], got %s", p.currToken)
		}
		return &Parameter{Kind: ParamIndexed, Raw: "[I]"}, nil

	case itemIdentifier:
		if n, ok := parseRegister(tok.val); ok {
			return &Parameter{Kind: ParamRegister, Reg: n, Raw: fmt.Sprintf("V%X", n)}, nil
		}
		if kw := strings.ToUpper(tok.val); keywords[kw] != 0 {
			return &Parameter{Kind: ParamKeyword, Keyword: kw, Raw: kw}, nil
		}
		param := &Parameter{Kind: ParamExpr, Label: tok.val, Raw: tok.val}
		return param, p.parseModifiers(param)

	case itemNumber:
		if tok.val == "+" || tok.val == "-" {
			return nil, fmt.Errorf("unexpected operator %q", tok.val)
		}
		n, err := parseNumber(tok.val)
		if err != nil {
			return nil, err
		}
		param := &Parameter{Kind: ParamExpr, Offset: n, Raw: tok.val}
		return param, p.parseModifiers(param)

	case itemError:
		return nil, errors.New(tok.val)

	default:
		return nil, fmt.Errorf("expected parameter, got %s", tok)
	}
}

// parseModifiers consumes the trailing +n/-n of an expression.
func (p *Parser) parseModifiers(param *Parameter) error {
	for p.peekToken.typ == itemNumber {
		p.nextToken()
		raw := p.currToken.val
		if raw == "+" || raw == "-" {
			p.nextToken()
			if p.currToken.typ != itemNumber || strings.ContainsAny(p.currToken.val[:1], "+-") {
				return fmt.Errorf("expected number after %q, got %s", raw, p.currToken)
			}
			raw += p.currToken.val
		} else if !strings.ContainsAny(raw[:1], "+-") {
			return fmt.Errorf("unexpected number %q after %s", raw, param)
		}
		n, err := parseNumber(raw)
		if err != nil {
			return err
		}
		param.Offset += n
		param.Raw += raw
	}
	return nil
}

// parseParameters parses a comma separated list of operands up to the end
// of the line.
func (p *Parser) parseParameters() ([]*Parameter, error) {
	var params []*Parameter
	p.nextToken()
	if p.currToken.typ.isEOL() {
		return nil, nil
	}
	for {
		param, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		p.nextToken()
		if p.currToken.typ.isEOL() {
			return params, nil
		}
		if p.currToken.typ != itemComa {
			return nil, fmt.Errorf("expected comma, got %s", p.currToken)
		}
		p.nextToken()
		if p.currToken.typ.isEOL() {
			return nil, fmt.Errorf("unexpected comma at the end of the line")
		}
	}
}

func (p *Parser) parseInstruction() error {
	line := p.currToken.line
	name := strings.ToLower(p.currToken.val)
	params, err := p.parseParameters()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	oc, err := matchOpCode(name, params)
	if err != nil {
		return err
	}
	p.Nodes = append(p.Nodes, &Instruction{OpCode: oc, Params: params, Line: line})
	return nil
}

func (p *Parser) parseDirective() error {
	line := p.currToken.line
	name := strings.ToLower(strings.TrimPrefix(p.currToken.val, string(op.DirectiveChar)))
	if _, ok := directiveSizes[name]; !ok {
		return fmt.Errorf("unknown directive %q", p.currToken.val)
	}
	params, err := p.parseParameters()
	if err != nil {
		return fmt.Errorf(".%s: %w", name, err)
	}
	if len(params) == 0 {
		return fmt.Errorf(".%s: missing value", name)
	}
	for _, param := range params {
		if param.Kind != ParamExpr {
			return fmt.Errorf(".%s: invalid value %s", name, param)
		}
	}
	p.Nodes = append(p.Nodes, &Directive{Name: name, Params: params, Line: line})
	return nil
}

func (p *Parser) Parse() error {
	for {
		p.nextToken()
		item := p.currToken
		if item.typ == itemEOF {
			break
		}
		if item.typ == itemError {
			return fmt.Errorf("%s:%d: %s", p.lexer.name, item.line, item.val)
		}

		var err error
		switch item.typ {
		case itemNewline, itemComment:
			continue
		case itemLabel:
			err = p.parseLabel()
		case itemDirective:
			err = p.parseDirective()
		case itemIdentifier:
			err = p.parseInstruction()
		default:
			err = fmt.Errorf("unexpected item %s", item)
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w", p.lexer.name, item.line, err)
		}
	}

	return nil
}
