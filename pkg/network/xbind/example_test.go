package xbind_test

import (
	"context"
	"fmt"

	"github.com/omeyang/netbind/pkg/network/xbind"
	"github.com/omeyang/netbind/pkg/util/xaddr"
)

func ExampleResolver_GetBindInterface() {
	cfg := xbind.Config{
		LocalSubnets: []string{"192.168.1.0/24"},
		EnableIPv4:   true,
	}
	ifaces := []xbind.Interface{
		{Subnet: xaddr.MustParse("192.168.1.208/24"), Index: -16, Name: "eth16"},
		{Subnet: xaddr.MustParse("200.200.200.200/24"), Index: 11, Name: "eth11"},
	}

	r, err := xbind.New(context.Background(), cfg, ifaces)
	if err != nil {
		panic(err)
	}

	internal, _ := r.GetBindInterface(context.Background(), "192.168.1.1")
	external, _ := r.GetBindInterface(context.Background(), "8.8.8.8")
	fmt.Println(internal)
	fmt.Println(external)
	// Output:
	// 192.168.1.208
	// 200.200.200.200
}

func ExampleResolver_IsInLocalNetwork() {
	cfg := xbind.Config{
		LocalSubnets: []string{"10.0.0.0/24", "!10.0.0.5"},
		EnableIPv4:   true,
	}
	r, err := xbind.New(context.Background(), cfg, nil)
	if err != nil {
		panic(err)
	}

	fmt.Println(r.IsInLocalNetwork(context.Background(), "10.0.0.4"))
	fmt.Println(r.IsInLocalNetwork(context.Background(), "10.0.0.5"))
	// Output:
	// true
	// false
}
