package std

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// Heading is a heading event published for the table of contents
type Heading struct {
	Level   int
	Content string
}

// Entry is one table of contents item handed to the render callback
type Entry struct {
	// Number is the dotted sibling path, e.g. "1.2"
	Number   string
	Content  string
	Children []string
}

// frame is an open item. previous holds the rendered siblings before it,
// children its own rendered children once they are closed.
type frame struct {
	content  string
	previous []string
	children []string
}

// BuildTOC nests flat heading events into a tree and renders it bottom-up.
// The returned slice holds the rendered top-level items. Skipped levels get
// empty placeholder items.
func BuildTOC(events []Heading, render func(Entry) (string, error)) ([]string, error) {
	queue := arraylist.New()
	for _, ev := range events {
		if ev.Level < 1 {
			return nil, fmt.Errorf("std: invalid heading level %d", ev.Level)
		}
		queue.Add(ev)
	}
	// closes every open frame
	queue.Add(Heading{Level: 0})

	stack := arraystack.New()
	root := &frame{}
	stack.Push(root)

	for !queue.Empty() {
		v, _ := queue.Get(0)
		queue.Remove(0)
		ev := v.(Heading)
		depth := stack.Size() - 1

		switch {
		case ev.Level == 0 && depth == 0:
			return root.children, nil

		case ev.Level == depth:
			top := pop(stack)
			rendered, err := renderFrame(stack, top, render)
			if err != nil {
				return nil, err
			}
			stack.Push(&frame{
				content:  ev.Content,
				previous: append(top.previous, rendered),
			})

		case ev.Level > depth:
			for d := depth + 1; d < ev.Level; d++ {
				stack.Push(&frame{})
			}
			stack.Push(&frame{content: ev.Content})

		default:
			top := pop(stack)
			rendered, err := renderFrame(stack, top, render)
			if err != nil {
				return nil, err
			}
			parent := peek(stack)
			parent.children = append(top.previous, rendered)
			queue.Insert(0, ev)
		}
	}

	return root.children, nil
}

// renderFrame renders top, which has just been popped off stack
func renderFrame(stack *arraystack.Stack, top *frame, render func(Entry) (string, error)) (string, error) {
	// Values is top first; the root frame carries no number
	values := stack.Values()
	parts := make([]string, 0, len(values))
	for i := len(values) - 2; i >= 0; i-- {
		parts = append(parts, strconv.Itoa(len(values[i].(*frame).previous)+1))
	}
	parts = append(parts, strconv.Itoa(len(top.previous)+1))

	return render(Entry{
		Number:   strings.Join(parts, "."),
		Content:  top.content,
		Children: top.children,
	})
}

func pop(stack *arraystack.Stack) *frame {
	v, _ := stack.Pop()
	return v.(*frame)
}

func peek(stack *arraystack.Stack) *frame {
	v, _ := stack.Peek()
	return v.(*frame)
}
