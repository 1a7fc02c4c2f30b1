// Package codec converts the network to and from the three text documents in which it is persisted:
// the accounts, the communities and the pending community messages.
package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/jackut/internal/config"
	"github.com/sidereusnuntius/jackut/internal/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	UsersDocument       = "usuarios.txt"
	CommunitiesDocument = "comunidades.txt"
	MessagesDocument    = "mensagens.txt"
)

// DocumentNames lists every document written by Encode.
var DocumentNames = []string{UsersDocument, CommunitiesDocument, MessagesDocument}

const (
	userHeader      = "USUARIO"
	communityHeader = "COMUNIDADE"
	blockEnd        = "FIM"

	messageOwner  = "USUARIO="
	messageSender = "DE="
	messageText   = "MENSAGEM="
)

const maxLine = 64 << 20

var (
	ErrMalformed = errors.New("malformed document")
	ErrCharset   = errors.New("unsupported charset")

	// ErrUnrepresentable means some text cannot be written in the configured charset.
	ErrUnrepresentable = errors.New("text not representable in charset")
)

// Documents holds the encoded form of a snapshot, keyed the same way as DocumentNames.
type Documents map[string][]byte

type Codec struct {
	charset encoding.Encoding
}

// New returns a codec writing documents in the given charset, one of config.UTF8 or config.Latin1.
func New(charset string) (*Codec, error) {
	switch strings.ToLower(charset) {
	case "", config.UTF8:
		return &Codec{}, nil
	case config.Latin1:
		return &Codec{charset: charmap.ISO8859_1}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCharset, charset)
}

func (c *Codec) Encode(s domain.Snapshot) (Documents, error) {
	texts := map[string]string{
		UsersDocument:       encodeUsers(s.Accounts),
		CommunitiesDocument: encodeCommunities(s.Communities),
		MessagesDocument:    encodeMessages(s.Accounts),
	}

	docs := make(Documents, len(texts))
	for name, text := range texts {
		if c.charset == nil {
			docs[name] = []byte(text)
			continue
		}
		b, err := c.charset.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("%w: encoding %s: %w", ErrUnrepresentable, name, err)
		}
		docs[name] = b
	}
	return docs, nil
}

// Decode rebuilds a snapshot. Missing documents are treated as empty; broadcasts addressed to
// logins absent from the accounts document are dropped.
func (c *Codec) Decode(docs Documents) (s domain.Snapshot, err error) {
	texts := make(map[string]string, len(docs))
	for name, b := range docs {
		if c.charset != nil {
			if b, err = c.charset.NewDecoder().Bytes(b); err != nil {
				return s, fmt.Errorf("decoding %s: %w", name, err)
			}
		}
		texts[name] = string(b)
	}

	if s.Accounts, err = decodeUsers(texts[UsersDocument]); err != nil {
		return
	}
	if s.Communities, err = decodeCommunities(texts[CommunitiesDocument]); err != nil {
		return
	}
	err = decodeMessages(texts[MessagesDocument], s.Accounts)
	return
}

// Verify decodes docs and checks that nothing of s was lost on the way.
func (c *Codec) Verify(docs Documents, s domain.Snapshot) error {
	decoded, err := c.Decode(docs)
	if err != nil {
		return err
	}

	if len(decoded.Accounts) != len(s.Accounts) {
		return fmt.Errorf("%w: %d accounts encoded, %d decoded", ErrMalformed, len(s.Accounts), len(decoded.Accounts))
	}
	if len(decoded.Communities) != len(s.Communities) {
		return fmt.Errorf("%w: %d communities encoded, %d decoded", ErrMalformed, len(s.Communities), len(decoded.Communities))
	}
	for i, a := range s.Accounts {
		d := decoded.Accounts[i]
		if d.Login != a.Login || len(d.Notes) != len(a.Notes) || len(d.Broadcasts) != len(a.Broadcasts) {
			return fmt.Errorf("%w: account %s does not survive a round trip", ErrMalformed, a.Login)
		}
	}
	return nil
}

func encodeUsers(accounts []domain.Account) string {
	var b strings.Builder
	for _, a := range accounts {
		b.WriteString(userHeader + "\n")
		field(&b, "login", escape(a.Login))
		field(&b, "senha", escape(a.Password))
		field(&b, "nome", escape(a.Name))
		field(&b, "atributos", encodeAttributes(a.Attributes))

		notes := make([]string, len(a.Notes))
		for i, n := range a.Notes {
			notes[i] = n.Frame()
		}
		field(&b, "recados", joinList(notes))

		field(&b, "amigos", joinList(a.Friends))
		field(&b, "convitesEnviados", joinList(a.InvitesSent))
		field(&b, "convitesRecebidos", joinList(a.InvitesReceived))
		field(&b, "comunidades", joinList(a.Communities))
		field(&b, "idolos", joinList(a.Idols))
		field(&b, "paqueras", joinList(a.Crushes))
		field(&b, "inimigos", joinList(a.Enemies))
		field(&b, "fas", joinList(a.Fans))
		b.WriteString(blockEnd + "\n")
	}
	return b.String()
}

func encodeAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = escapeKey(k) + ":" + escape(attrs[k])
	}
	return strings.Join(pairs, "|")
}

func encodeCommunities(communities []domain.Community) string {
	var b strings.Builder
	for _, c := range communities {
		b.WriteString(communityHeader + "\n")
		field(&b, "nome", escape(c.Name))
		field(&b, "descricao", escape(c.Description))
		field(&b, "dono", escape(c.Owner))
		field(&b, "membros", joinList(c.Members))
		b.WriteString(blockEnd + "\n")
	}
	return b.String()
}

func encodeMessages(accounts []domain.Account) string {
	var b strings.Builder
	for _, a := range accounts {
		b.WriteString(messageOwner + escape(a.Login) + "\n")
		for _, m := range a.Broadcasts {
			if m.From != "" {
				b.WriteString(messageSender + escape(m.From) + "\n")
			}
			b.WriteString(messageText + escape(m.Text) + "\n")
		}
		b.WriteString(blockEnd + "\n")
	}
	return b.String()
}

func field(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteByte('\n')
}

// blocks returns the lines between each header and the following FIM.
func blocks(text, header string) ([][]string, error) {
	var (
		result [][]string
		block  []string
		open   bool
		lineNo int
	)

	sc := newScanner(text)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		switch {
		case line == header:
			if open {
				return nil, fmt.Errorf("%w: line %d: %s block not terminated", ErrMalformed, lineNo, header)
			}
			open, block = true, nil
		case line == blockEnd:
			if !open {
				return nil, fmt.Errorf("%w: line %d: unexpected %s", ErrMalformed, lineNo, blockEnd)
			}
			result = append(result, block)
			open = false
		case open:
			block = append(block, line)
		case line != "":
			log.Debug().Int("line", lineNo).Msg("ignoring line outside of a block")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	if open {
		return nil, fmt.Errorf("%w: %s block not terminated at end of document", ErrMalformed, header)
	}
	return result, nil
}

func newScanner(text string) *bufio.Scanner {
	sc := bufio.NewScanner(bytes.NewReader([]byte(text)))
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return sc
}

func decodeUsers(text string) ([]domain.Account, error) {
	bs, err := blocks(text, userHeader)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(bs))
	for _, lines := range bs {
		a := domain.Account{Attributes: map[string]string{}}
		for _, line := range lines {
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			switch key {
			case "login":
				a.Login = unescape(value)
			case "senha":
				a.Password = unescape(value)
			case "nome":
				a.Name = unescape(value)
			case "atributos":
				for _, pair := range split(value, '|', 0) {
					kv := split(pair, ':', 2)
					if len(kv) != 2 || kv[0] == "" {
						continue
					}
					a.Attributes[unescape(kv[0])] = unescape(kv[1])
				}
			case "recados":
				for _, framed := range splitList(value) {
					a.Notes = append(a.Notes, domain.ParseNote(framed))
				}
			case "amigos":
				a.Friends = splitList(value)
			case "convitesEnviados":
				a.InvitesSent = splitList(value)
			case "convitesRecebidos":
				a.InvitesReceived = splitList(value)
			case "comunidades":
				a.Communities = splitList(value)
			case "idolos":
				a.Idols = splitList(value)
			case "paqueras":
				a.Crushes = splitList(value)
			case "inimigos":
				a.Enemies = splitList(value)
			case "fas":
				a.Fans = splitList(value)
			}
		}
		if a.Login == "" {
			return nil, fmt.Errorf("%w: account without login", ErrMalformed)
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func decodeCommunities(text string) ([]domain.Community, error) {
	bs, err := blocks(text, communityHeader)
	if err != nil {
		return nil, err
	}

	communities := make([]domain.Community, 0, len(bs))
	for _, lines := range bs {
		var c domain.Community
		for _, line := range lines {
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			switch key {
			case "nome":
				c.Name = unescape(value)
			case "descricao":
				c.Description = unescape(value)
			case "dono":
				c.Owner = unescape(value)
			case "membros":
				c.Members = splitList(value)
			}
		}
		if c.Name == "" {
			log.Warn().Msg("skipping community without a name")
			continue
		}
		communities = append(communities, c)
	}
	return communities, nil
}

func decodeMessages(text string, accounts []domain.Account) error {
	index := make(map[string]int, len(accounts))
	for i, a := range accounts {
		index[a.Login] = i
	}

	var (
		current = -1
		sender  string
	)

	sc := newScanner(text)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(line, messageOwner):
			login := unescape(strings.TrimPrefix(line, messageOwner))
			i, ok := index[login]
			if !ok {
				log.Debug().Str("login", login).Msg("dropping messages of unknown account")
				i = -1
			}
			current, sender = i, ""
		case strings.HasPrefix(line, messageSender):
			sender = unescape(strings.TrimPrefix(line, messageSender))
		case strings.HasPrefix(line, messageText):
			if current >= 0 {
				accounts[current].Broadcasts = append(accounts[current].Broadcasts, domain.Broadcast{
					From: sender,
					Text: unescape(strings.TrimPrefix(line, messageText)),
				})
			}
			sender = ""
		case line == blockEnd:
			current, sender = -1, ""
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	return nil
}
