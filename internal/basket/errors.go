package basket

import "errors"

// ErrNotInBasket means the identity key resolved to no line. For
// authenticated baskets it is returned before any network call.
var ErrNotInBasket = errors.New("item not in basket")
