package primitive_test

import (
	"fmt"

	"specweaver/primitive"
)

func Example() {
	fmt.Println(primitive.FromName("string"))
	fmt.Println(primitive.FromName("Boolean"))
	fmt.Println(primitive.FromName("int64"))
	fmt.Println(primitive.FromName("Promise"))
	fmt.Println(primitive.FromName("void"))
	fmt.Println(primitive.FromName("Customer"))
	fmt.Println(primitive.FromName("List").IsContainer(), primitive.FromName("date").IsContainer())
	// Output:
	// KindString
	// KindBool
	// KindInteger
	// KindContainer
	// KindVoid
	// KindEnum(0)
	// true false
}
