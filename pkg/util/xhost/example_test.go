package xhost_test

import (
	"context"
	"fmt"

	"github.com/omeyang/netbind/pkg/util/xhost"
)

func ExampleTryParse() {
	h, ok := xhost.TryParse("[fd00::1]:8096")
	fmt.Println(ok, h.Name(), h.Port())

	_, ok = xhost.TryParse("not a host!")
	fmt.Println(ok)
	// Output:
	// true fd00::1 8096
	// false
}

func ExampleHost_Resolve_literal() {
	// 字面地址是预解析别名，Resolve 不发起名字服务调用
	h, _ := xhost.TryParse("192.168.1.5")
	fmt.Println(h.Resolve(context.Background()))
	// Output:
	// [192.168.1.5]
}

func ExampleHost_Equal() {
	a, _ := xhost.TryParse("MyHost.Example")
	b, _ := xhost.TryParse("myhost.example")
	fmt.Println(a.Equal(b))
	// Output:
	// true
}
