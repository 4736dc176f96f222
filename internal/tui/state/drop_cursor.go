package state

// DropCursor is the keyboard drop target while a card is carried: a column
// and a slot between its cards. Slot len(cards) is the end of the column.
type DropCursor struct {
	column int
	slot   int
}

// Reset places the cursor on a column and slot
func (c *DropCursor) Reset(column, slot int) {
	c.column = column
	c.slot = slot
}

func (c *DropCursor) Column() int {
	return c.column
}

func (c *DropCursor) Slot() int {
	return c.slot
}

// Left moves to the previous column, keeping the slot where it fits.
// sizes holds the card count of every column.
func (c *DropCursor) Left(sizes []int) {
	if c.column > 0 {
		c.column--
	}
	c.clamp(sizes)
}

// Right moves to the next column
func (c *DropCursor) Right(sizes []int) {
	if c.column < len(sizes)-1 {
		c.column++
	}
	c.clamp(sizes)
}

// Up moves the slot towards the top of the column
func (c *DropCursor) Up() {
	if c.slot > 0 {
		c.slot--
	}
}

// Down moves the slot towards the end of the column
func (c *DropCursor) Down(sizes []int) {
	c.clamp(sizes)
	if c.column < len(sizes) && c.slot < sizes[c.column] {
		c.slot++
	}
}

func (c *DropCursor) clamp(sizes []int) {
	if len(sizes) == 0 {
		c.column, c.slot = 0, 0
		return
	}
	c.column = max(0, min(c.column, len(sizes)-1))
	c.slot = max(0, min(c.slot, sizes[c.column]))
}
