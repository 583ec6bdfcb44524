package dialogue

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// Separator joins input keys into a node path. The root's path is empty.
const Separator = "_"

// Node is one exchange: the speaker's pages, the reply pages, and the
// inputs leading on. A node without inputs ends the conversation.
type Node struct {
	Path     string
	Speakers [2]string
	Initiate []string
	Response []string

	choices []string
	inputs  map[string]*Node
}

// Choices lists the input keys in file order
func (n *Node) Choices() []string {
	return append([]string(nil), n.choices...)
}

// Next follows an input key
func (n *Node) Next(choice string) (*Node, bool) {
	next, ok := n.inputs[choice]
	return next, ok
}

func (n *Node) Leaf() bool { return len(n.choices) == 0 }

// Find walks a path of input keys from n
func (n *Node) Find(path string) (*Node, bool) {
	if path == "" {
		return n, true
	}
	cur := n
	for _, key := range strings.Split(path, Separator) {
		next, ok := cur.inputs[key]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + Separator + key
}

// pages accepts either a single string or a list of strings
type pages []string

func (p *pages) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*p = pages{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*p = list
		return nil
	default:
		return fmt.Errorf("line %d: pages must be a string or a list of strings", value.Line)
	}
}

type rawNode struct {
	Speakers []string  `yaml:"speakers"`
	Initiate pages     `yaml:"initiate"`
	Response pages     `yaml:"response"`
	Inputs   yaml.Node `yaml:"inputs"`
}

type loopRef struct {
	from   *Node
	key    string
	target string
}

type builder struct {
	name     string
	speakers [2]string
	named    bool
	loops    []loopRef
}

func (b *builder) invalid(format string, args ...interface{}) error {
	return fmt.Errorf("dialogue %q: %s: %w", b.name, fmt.Sprintf(format, args...), core.ErrInvalidDialogue)
}

func (b *builder) node(raw *rawNode, path string) (*Node, error) {
	speakers := b.speakers
	switch len(raw.Speakers) {
	case 0:
	case 2:
		speakers = [2]string{raw.Speakers[0], raw.Speakers[1]}
		// the first speakers named in a tree apply to every node without its own
		if !b.named {
			b.speakers, b.named = speakers, true
		}
	default:
		return nil, b.invalid("node %q needs exactly two speakers", path)
	}

	n := &Node{
		Path:     path,
		Speakers: speakers,
		Initiate: raw.Initiate,
		Response: raw.Response,
		inputs:   make(map[string]*Node),
	}

	switch raw.Inputs.Kind {
	case 0:
		return n, nil
	case yaml.MappingNode:
	case yaml.ScalarNode:
		if raw.Inputs.Tag == "!!null" {
			return n, nil
		}
		return nil, b.invalid("node %q inputs must be a mapping", path)
	default:
		return nil, b.invalid("node %q inputs must be a mapping", path)
	}

	content := raw.Inputs.Content
	for i := 0; i+1 < len(content); i += 2 {
		key, value := content[i].Value, content[i+1]
		if key == "" || strings.Contains(key, Separator) {
			return nil, b.invalid("node %q has input %q; keys may not be empty or contain %q", path, key, Separator)
		}
		if _, dup := n.inputs[key]; dup {
			return nil, b.invalid("node %q repeats input %q", path, key)
		}
		n.choices = append(n.choices, key)

		switch value.Kind {
		case yaml.ScalarNode:
			b.loops = append(b.loops, loopRef{from: n, key: key, target: value.Value})
		case yaml.MappingNode:
			var child rawNode
			if err := value.Decode(&child); err != nil {
				return nil, fmt.Errorf("dialogue %q node %q: %w", b.name, joinPath(path, key), err)
			}
			next, err := b.node(&child, joinPath(path, key))
			if err != nil {
				return nil, err
			}
			n.inputs[key] = next
		default:
			return nil, b.invalid("node %q input %q must be a node or a path", path, key)
		}
	}
	return n, nil
}

// build decodes one conversation and links its loop references
func build(name string, raw *rawNode) (*Node, error) {
	b := &builder{name: name}
	root, err := b.node(raw, "")
	if err != nil {
		return nil, err
	}
	for _, l := range b.loops {
		target, ok := root.Find(l.target)
		if !ok {
			return nil, b.invalid("input %q of node %q points at missing node %q", l.key, l.from.Path, l.target)
		}
		l.from.inputs[l.key] = target
	}
	return root, nil
}

// Set holds every conversation by key
type Set struct {
	trees map[string]*Node
}

func NewSet() *Set {
	return &Set{trees: make(map[string]*Node)}
}

// Parse decodes a YAML document mapping conversation keys to root nodes
func Parse(data []byte) (*Set, error) {
	var raw map[string]rawNode
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode dialogues: %w", err)
	}
	s := NewSet()
	for name := range raw {
		node := raw[name]
		root, err := build(name, &node)
		if err != nil {
			return nil, err
		}
		s.Add(name, root)
	}
	return s, nil
}

// Load reads and decodes a dialogue file
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dialogues: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Set) Add(key string, root *Node) {
	s.trees[key] = root
}

// Get returns the root of a conversation
func (s *Set) Get(key string) (*Node, error) {
	root, ok := s.trees[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, core.ErrDialogueNotFound)
	}
	return root, nil
}

func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.trees))
	for k := range s.trees {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
