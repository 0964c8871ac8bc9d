package third

// bootstrapSource is the surface-language program evaluated before any
// caller-supplied input. "#" line comments are themselves a bootstrapped
// word (built on the kernel's PARSE primitive), so the handful of
// definitions that get it off the ground run uncommented; everything after
// that is free to use "#" as an ordinary Forth comment.
//
// What follows: three scratch cells and the stack-shuffling words built on
// them, "#" comments, structured conditionals and a BEGIN/UNTIL loop built
// on BRANCH/0BRANCH via the immediate "'" trick, comparisons and MOD/ /MOD
// built on the arithmetic primitives, a counted TIMES built on BEGIN/UNTIL
// (a colon definition's own name is hidden from its own body until END
// publishes it, so TIMES cannot call itself by name; it loops instead), +!
// for CREATE/RETURN-based counters, and an indexable VECTOR built on
// CREATE/RETURN (DOES>).
const bootstrapSource = `
CREATE T0 0 ,
CREATE T1 0 ,
CREATE T2 0 ,

DEF DUP T0 ! T0 @ T0 @ END
DEF DROP T0 ! END
DEF SWAP T0 ! T1 ! T0 @ T1 @ END
DEF OVER T0 ! T1 ! T1 @ T0 @ T1 @ END
DEF ROT T0 ! T1 ! T2 ! T1 @ T0 @ T2 @ END

DEF # IMMEDIATE 10 PARSE DROP DROP END

# ( a -- ) compiles a 0BRANCH with a placeholder, leaving its address
DEF IF IMMEDIATE
  ' 0BRANCH , HERE @ 0 ,
END

# ( addr1 -- addr2 ) compiles an unconditional BRANCH over the else
# branch, patches addr1 to the else branch's start, leaves the new
# placeholder for THEN
DEF ELSE IMMEDIATE
  ' BRANCH , HERE @ T2 ! 0 , HERE @ SWAP ! T2 @
END

# ( addr -- ) patches addr to the current location
DEF THEN IMMEDIATE
  HERE @ SWAP !
END

# ( -- addr ) marks the top of a loop, for UNTIL to branch back to
DEF BEGIN IMMEDIATE
  HERE @
END

# ( addr -- ) compiles a 0BRANCH back to addr, closing a BEGIN loop
DEF UNTIL IMMEDIATE
  ' 0BRANCH , ,
END

# ( n cfa -- ) run cfa n times
DEF TIMES
  T1 ! T0 !
  T0 @ 0= IF EXIT THEN
  BEGIN
    T1 @ EXECUTE
    T0 @ 1 - DUP T0 !
    0=
  UNTIL
END

# ( a b -- flag ) a < b
DEF < - 0< END
# ( a b -- flag ) a > b
DEF > SWAP < END
# ( a b -- flag ) a <= b
DEF <= > 0= END
# ( a b -- flag ) a >= b
DEF >= < 0= END
# ( a b -- flag ) a = b
DEF = - 0= END

# ( a b -- rem quot ) truncating division with its remainder
DEF /MOD
  T1 ! T0 !
  T0 @ T1 @ /
  T2 !
  T0 @ T2 @ T1 @ * -
  T2 @
END

# ( a b -- rem ) a mod b, truncating toward zero like /
DEF MOD /MOD DROP END

# ( n addr -- ) add n to the cell at addr
DEF +! DUP @ ROT + SWAP ! END

# ( n -- ) n VECTOR NAME creates NAME, an n-cell array indexing word:
# ( i -- addr )
DEF VECTOR
  CREATE
  { 0 , } TIMES
  RETURN
  SWAP CELL * +
END
`
