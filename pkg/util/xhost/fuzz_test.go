package xhost

import (
	"context"
	"strings"
	"testing"
)

// FuzzTryParse 验证解析器对任意输入不 panic，且成功结果满足基本不变量。
func FuzzTryParse(f *testing.F) {
	seeds := []string{
		"myhost.example",
		"10.0.0.1",
		"10.0.0.1:8096",
		"fd00::1",
		"[fd00::1]:8096",
		"[fd00::1]",
		"localhost",
		"my_host",
		"-bad",
		"127.0.0.1#",
		"a.b.c.d.e.f",
		"[",
		":80",
		"10.0.0.1:",
		strings.Repeat("a", 64),
		strings.Repeat("a.", 200),
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		h, ok := TryParse(input, WithLookuper(panicLookuper{}))
		if !ok {
			if h != nil {
				t.Errorf("TryParse(%q) returned non-nil host with ok=false", input)
			}
			return
		}
		if h == nil {
			t.Fatalf("TryParse(%q) returned nil host with ok=true", input)
		}

		if h.Name() == "" {
			t.Errorf("TryParse(%q): empty name", input)
		}
		if !h.HasPort() && h.Port() != 0 {
			t.Errorf("TryParse(%q): port set without HasPort", input)
		}

		// 字面量必须已预解析出恰好一个地址
		if h.IsLiteral() {
			if len(h.Addresses()) != 1 {
				t.Errorf("TryParse(%q): literal host has %d addresses", input, len(h.Addresses()))
			}
			// 字面量解析不得触碰名字服务（panicLookuper 会 panic）
			h.Resolve(context.Background())
		}

		// 规范化字符串可重新解析
		if _, ok := TryParse(h.String(), WithLookuper(panicLookuper{})); !ok {
			t.Errorf("TryParse(%q): canonical %q does not reparse", input, h.String())
		}
	})
}
