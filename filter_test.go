package scopebar

import (
	"context"
	"testing"

	"github.com/ShayCichocki/scopebar/pkg/scope"
)

func TestAttrFilterHideByDefault(t *testing.T) {
	e := newTestEnv(t, WithFilter(AttrFilter(false)))
	ctx := context.Background()

	hidden, _ := e.begin(ctx, "hidden")
	shown, _ := e.begin(ctx, "shown", scope.String(AttrShow, ""))

	e.assertFrame(t, `shown{scopebar.show=""}`)

	hidden.End()
	shown.End()
	e.assertFrame(t, "")
}

func TestAttrFilterShowByDefault(t *testing.T) {
	e := newTestEnv(t, WithFilter(AttrFilter(true)))
	ctx := context.Background()

	shown, _ := e.begin(ctx, "shown")
	hidden, _ := e.begin(ctx, "hidden", scope.String(AttrHide, ""))
	// Show wins when both attrs are present.
	both, _ := e.begin(ctx, "both",
		scope.String(AttrHide, ""), scope.String(AttrShow, ""))

	e.assertFrame(t, `
shown{}
both{scopebar.hide="" scopebar.show=""}
`)

	shown.End()
	hidden.End()
	both.End()
}

func TestFilteredScopesAreTransparentAncestors(t *testing.T) {
	e := newTestEnv(t, WithFilter(AttrFilter(true)))
	ctx := context.Background()

	// mid is filtered out; leaf must attach to root as if mid did not
	// exist: one level deep, rendered directly under root.
	root, rootCtx := e.begin(ctx, "root")
	mid, midCtx := e.begin(rootCtx, "mid", scope.String(AttrHide, ""))
	leaf, _ := e.begin(midCtx, "leaf")

	e.assertFrame(t, `
root{}
--> leaf{}
`)

	leaf.End()
	mid.End()
	root.End()
	e.assertFrame(t, "")
}

func TestHideFilterAttrs(t *testing.T) {
	e := newTestEnv(t,
		WithFilter(AttrFilter(false)),
		WithFieldFormatter(HideFilterAttrs(DefaultFieldFormatter)),
	)
	ctx := context.Background()

	s, _ := e.begin(ctx, "job", scope.String(AttrShow, ""), scope.Int("n", 2))
	e.assertFrame(t, "job{n=2}")
	s.End()
}

func TestDefaultFieldFormatter(t *testing.T) {
	got := DefaultFieldFormatter([]scope.Attr{
		scope.String("name", "it"),
		scope.Int("count", 3),
		{Key: "ok", Value: true},
	})
	want := `name="it" count=3 ok=true`
	if got != want {
		t.Errorf("DefaultFieldFormatter = %q, want %q", got, want)
	}
	if got := DefaultFieldFormatter(nil); got != "" {
		t.Errorf("DefaultFieldFormatter(nil) = %q, want empty", got)
	}
}
